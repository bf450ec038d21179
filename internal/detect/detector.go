// Package detect finds scene-change boundaries in a video. Detection is
// delegated to ffmpeg's scene-score filter; this package only converts the
// filter's cut timestamps into frame-aligned scene boundaries.
package detect

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/vlntnbb/SnapScript/internal/media"
	"github.com/vlntnbb/SnapScript/internal/timecode"
)

// DefaultThreshold is the default content-change sensitivity. The scale
// matches the classic content detector convention (roughly 0-100, lower is
// more sensitive); it is mapped onto ffmpeg's 0..1 scene score internally.
const DefaultThreshold = 27.0

// SceneBoundary delimits one detected scene as a half-open interval
// [Start, End).
type SceneBoundary struct {
	Start timecode.Timecode
	End   timecode.Timecode
}

// Detector runs scene-change detection with a configurable threshold.
type Detector struct {
	threshold float64
}

// NewDetector creates a Detector. Out-of-range thresholds fall back to
// DefaultThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// showinfo emits one line per selected frame; pts_time carries the
// presentation timestamp of each detected cut.
var ptsTimeRe = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

// DetectScenes runs ffmpeg scene detection over the whole video and
// returns the resulting scene list. An empty list means no scene changes
// were found, which is a valid outcome and distinct from a detection error.
func (d *Detector) DetectScenes(ctx context.Context, videoPath string, info *media.VideoInfo) ([]SceneBoundary, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	log.Info().
		Float64("threshold", d.threshold).
		Str("video", videoPath).
		Msg("Detecting scene changes")

	filter := fmt.Sprintf("select='gt(scene,%.4f)',showinfo", d.threshold/100.0)
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", videoPath,
		"-vf", filter,
		"-f", "null",
		"-",
	)
	// showinfo logs to stderr; ffmpeg writes nothing useful to stdout here.
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error().
			Str("command", cmd.String()).
			Str("output", string(output)).
			Err(err).
			Msg("Scene detection failed")
		return nil, fmt.Errorf("scene detection failed: %w", err)
	}

	cuts := parseCutTimes(output)
	scenes := buildScenes(cuts, info.Duration, info.FrameRate)

	if len(scenes) == 0 {
		log.Warn().Msg("No scene changes found")
	} else {
		log.Info().Int("scenes", len(scenes)).Msg("Scene detection complete")
	}

	return scenes, nil
}

// parseCutTimes extracts cut timestamps (seconds) from showinfo output,
// deduplicated and in ascending order.
func parseCutTimes(output []byte) []float64 {
	matches := ptsTimeRe.FindAllSubmatch(output, -1)
	seen := make(map[float64]bool, len(matches))
	cuts := make([]float64, 0, len(matches))
	for _, m := range matches {
		t, err := strconv.ParseFloat(string(m[1]), 64)
		if err != nil || seen[t] {
			continue
		}
		seen[t] = true
		cuts = append(cuts, t)
	}
	sort.Float64s(cuts)
	return cuts
}

// buildScenes converts cut points into a contiguous scene list covering
// [0, duration). With no cuts the list is empty: a video without scene
// changes yields no scenes rather than one giant scene.
func buildScenes(cuts []float64, duration, fps float64) []SceneBoundary {
	if len(cuts) == 0 {
		return nil
	}

	starts := make([]float64, 0, len(cuts)+1)
	starts = append(starts, 0)
	for _, c := range cuts {
		if c <= 0 || c >= duration {
			continue
		}
		starts = append(starts, c)
	}
	if len(starts) == 1 {
		return nil
	}

	scenes := make([]SceneBoundary, 0, len(starts))
	for i, s := range starts {
		end := duration
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		scenes = append(scenes, SceneBoundary{
			Start: timecode.FromSeconds(s, fps),
			End:   timecode.FromSeconds(end, fps),
		})
	}
	return scenes
}
