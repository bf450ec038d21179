// Package snapshot picks and extracts one representative frame per detected
// scene. The first frames after a cut are frequently transitional or
// blurred, so capture is delayed by a stabilization offset, with a fallback
// policy for scenes too short to absorb it.
package snapshot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/vlntnbb/SnapScript/internal/detect"
	"github.com/vlntnbb/SnapScript/internal/timecode"
)

// DefaultStabilizationOffset is the default delay, in seconds, after a
// scene's start before capturing its representative frame.
const DefaultStabilizationOffset = 0.5

// FrameDecoder seeks to a position in a video and decodes one frame to an
// image file. Implemented by media.FFmpeg.
type FrameDecoder interface {
	DecodeFrame(ctx context.Context, videoPath string, at timecode.Timecode, outputPath string) error
}

// Event records one successfully captured scene snapshot.
type Event struct {
	// Ordinal is the 1-based scene index the snapshot belongs to.
	Ordinal int

	// CaptureTime is the position the snapshot represents. For fallback
	// captures this remains the originally chosen time, not the earlier
	// frame actually decoded.
	CaptureTime timecode.Timecode

	// Image is the snapshot's filename within the run output directory.
	Image string

	// Fallback reports whether the frame one position earlier had to be
	// decoded instead of the chosen one.
	Fallback bool
}

// Resolver applies the stabilization-offset policy and drives frame
// extraction.
type Resolver struct {
	decoder   FrameDecoder
	offsetSec float64
}

// NewResolver creates a Resolver. Negative offsets are clamped to zero;
// an offset of zero captures exactly at each scene's start.
func NewResolver(decoder FrameDecoder, offsetSec float64) *Resolver {
	if offsetSec < 0 {
		offsetSec = 0
	}
	return &Resolver{decoder: decoder, offsetSec: offsetSec}
}

// ResolveCaptureTime picks the capture position for one scene:
//
//   - start + offset, when that still falls inside the scene;
//   - the scene's last frame (end - 1), when the scene is shorter than the
//     offset but longer than one frame;
//   - the scene's start, for single-frame scenes.
//
// The short-scene cases are logged as warnings; they are not errors.
func (r *Resolver) ResolveCaptureTime(scene detect.SceneBoundary, ordinal int) timecode.Timecode {
	desired := scene.Start.AddSeconds(r.offsetSec)
	if desired.Before(scene.End) {
		return desired
	}

	capture := scene.Start
	if scene.End.Frame() > scene.Start.Frame() {
		capture = scene.End.AddFrames(-1)
	}
	log.Warn().
		Int("scene", ordinal).
		Float64("offset_s", r.offsetSec).
		Str("capture", capture.String()).
		Msg("Scene too short for stabilization offset, using nearest frame")
	return capture
}

// ExtractSnapshots captures one frame per scene into outputDir, named by
// 1-based scene ordinal ("3.jpg", or "3_fallback.jpg" when the frame one
// position earlier had to be used). A scene whose frame cannot be decoded
// even after the fallback attempt is skipped and logged; the run continues.
//
// The returned events are in ascending ordinal order and may number fewer
// than the scenes. An empty scene list yields an empty result.
func (r *Resolver) ExtractSnapshots(ctx context.Context, videoPath string, scenes []detect.SceneBoundary, outputDir string) []Event {
	if len(scenes) == 0 {
		return nil
	}

	log.Info().
		Float64("offset_s", r.offsetSec).
		Int("scenes", len(scenes)).
		Msg("Extracting stabilized scene snapshots")

	events := make([]Event, 0, len(scenes))
	for i, scene := range scenes {
		ordinal := i + 1
		capture := r.ResolveCaptureTime(scene, ordinal)

		filename := fmt.Sprintf("%d.jpg", ordinal)
		err := r.decoder.DecodeFrame(ctx, videoPath, capture, filepath.Join(outputDir, filename))
		if err == nil {
			events = append(events, Event{Ordinal: ordinal, CaptureTime: capture, Image: filename})
			continue
		}

		log.Error().
			Int("scene", ordinal).
			Str("capture", capture.String()).
			Err(err).
			Msg("Failed to decode frame for scene")

		// Retry one frame earlier, unless the chosen position is already
		// the very first frame of the video.
		if capture.Frame() == 0 {
			continue
		}
		filename = fmt.Sprintf("%d_fallback.jpg", ordinal)
		err = r.decoder.DecodeFrame(ctx, videoPath, capture.AddFrames(-1), filepath.Join(outputDir, filename))
		if err != nil {
			log.Error().
				Int("scene", ordinal).
				Err(err).
				Msg("Fallback frame decode failed, skipping scene")
			continue
		}
		log.Warn().Int("scene", ordinal).Str("image", filename).Msg("Saved previous frame as fallback snapshot")
		events = append(events, Event{Ordinal: ordinal, CaptureTime: capture, Image: filename, Fallback: true})
	}

	if len(events) > 0 {
		log.Info().Int("saved", len(events)).Str("dir", outputDir).Msg("Snapshot extraction complete")
	} else {
		log.Warn().Msg("No snapshots could be saved")
	}

	return events
}
