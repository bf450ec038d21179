// Package pipeline drives one processing run end to end: scene detection,
// snapshot extraction, optional transcription with per-segment audio
// clips, and report generation. Every stage completes (or degrades)
// before the next begins; nothing runs concurrently.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vlntnbb/SnapScript/internal/detect"
	"github.com/vlntnbb/SnapScript/internal/fsutil"
	"github.com/vlntnbb/SnapScript/internal/media"
	"github.com/vlntnbb/SnapScript/internal/report"
	"github.com/vlntnbb/SnapScript/internal/snapshot"
	"github.com/vlntnbb/SnapScript/internal/timeline"
	"github.com/vlntnbb/SnapScript/internal/transcribe"
)

// audioSegmentsDirName is the subdirectory of the run output that holds
// per-segment clips.
const audioSegmentsDirName = "audio_segments"

// progressLogInterval throttles transcription progress output.
const progressLogInterval = 5 * time.Second

// Options configures one run.
type Options struct {
	VideoPath           string
	OutputBase          string
	Threshold           float64
	StabilizationOffset float64
	Transcribe          bool
	WhisperModel        string
	Language            string
	ExtractAudio        bool
}

// Run executes the full pipeline for one video. Pre-flight failures
// (missing video, missing required external tools) abort before any
// output directory is created; later stage failures degrade per stage.
func Run(ctx context.Context, opts Options) error {
	if _, err := os.Stat(opts.VideoPath); err != nil {
		return fmt.Errorf("video file not found: %s", opts.VideoPath)
	}

	caps := media.ProbeCapabilities(ctx)
	if err := preflight(&opts, caps); err != nil {
		return err
	}

	baseName := strings.TrimSuffix(filepath.Base(opts.VideoPath), filepath.Ext(opts.VideoPath))
	runDir := fsutil.UniqueOutputDir(opts.OutputBase, baseName)
	if err := fsutil.EnsureDir(runDir); err != nil {
		return err
	}
	log.Info().Str("dir", runDir).Msg("Run output directory ready")

	info, err := media.Probe(ctx, opts.VideoPath)
	if err != nil {
		return fmt.Errorf("failed to probe video: %w", err)
	}

	ffmpeg, err := media.NewFFmpeg()
	if err != nil {
		return err
	}

	// Stage 1: scene detection and snapshot extraction. A detection
	// failure leaves the snapshot list empty; the run continues.
	snapshots := extractSnapshots(ctx, opts, info, ffmpeg, runDir)

	if len(snapshots) > 0 {
		srtPath := filepath.Join(runDir, baseName+"_snapshots.srt")
		if err := report.WriteSnapshotSRT(snapshots, srtPath); err != nil {
			log.Error().Err(err).Msg("Failed to write snapshot SRT")
		}
	}

	// Stage 2: optional transcription with per-segment clips.
	var entries []timeline.TranscriptEntry
	audioAvailable := false
	if opts.Transcribe {
		entries, audioAvailable = transcribeStage(ctx, opts, ffmpeg, runDir, baseName)
	}

	// Stage 3: merge and render.
	merged := timeline.Merge(snapshots, entries)
	if len(merged) == 0 {
		log.Warn().Msg("Nothing to report: no snapshots and no transcript data")
		return nil
	}

	return report.NewGenerator().WriteReport(merged, runDir, baseName, audioAvailable)
}

// preflight validates requested features against probed capabilities.
// Snapshot extraction always needs ffmpeg and ffprobe; transcription
// additionally needs a working faster-whisper install. Per-segment audio
// extraction is demoted to a warning when ffmpeg is missing, but that
// also fails the ffmpeg requirement above, so in practice the flag only
// matters together with transcription.
func preflight(opts *Options, caps media.Capabilities) error {
	if !caps.FFmpeg {
		return fmt.Errorf("ffmpeg not found in PATH; it is required for scene detection and snapshot extraction")
	}
	if !caps.FFprobe {
		return fmt.Errorf("ffprobe not found in PATH; it is required for video metadata")
	}
	if opts.Transcribe && !caps.Transcriber {
		return fmt.Errorf("transcription requested but faster-whisper is not available (pip install faster-whisper)")
	}
	if opts.ExtractAudio && !caps.FFmpeg {
		log.Warn().Msg("ffmpeg unavailable, per-segment audio extraction disabled")
		opts.ExtractAudio = false
	}
	return nil
}

// extractSnapshots runs scene detection and the snapshot timing resolver.
func extractSnapshots(ctx context.Context, opts Options, info *media.VideoInfo, ffmpeg *media.FFmpeg, runDir string) []snapshot.Event {
	log.Info().Msg("--- Snapshot processing started ---")
	defer log.Info().Msg("--- Snapshot processing finished ---")

	detector := detect.NewDetector(opts.Threshold)
	scenes, err := detector.DetectScenes(ctx, opts.VideoPath, info)
	if err != nil {
		log.Error().Err(err).Msg("Scene detection failed, no snapshots will be extracted")
		return nil
	}
	if len(scenes) == 0 {
		log.Warn().Msg("No scene changes found; snapshots and snapshot SRT will not be created")
		return nil
	}

	resolver := snapshot.NewResolver(ffmpeg, opts.StabilizationOffset)
	return resolver.ExtractSnapshots(ctx, opts.VideoPath, scenes, runDir)
}

// transcribeStage extracts the audio track, transcribes it, writes the
// transcript SRT, and optionally cuts per-segment clips. Failures inside
// the stage leave its outputs empty rather than aborting the run. The
// temporary audio file is removed when the stage ends, whatever happened.
func transcribeStage(ctx context.Context, opts Options, ffmpeg *media.FFmpeg, runDir, baseName string) ([]timeline.TranscriptEntry, bool) {
	log.Info().Msg("--- Transcription started ---")
	defer log.Info().Msg("--- Transcription finished ---")

	tempAudio := fsutil.TempAudioPath(".wav")
	defer fsutil.SafeRemove(tempAudio)

	if err := ffmpeg.ExtractAudio(ctx, opts.VideoPath, tempAudio); err != nil {
		log.Error().Err(err).Msg("Transcription skipped: audio extraction failed")
		return nil, false
	}

	backend := transcribe.NewFasterWhisperBackend(opts.WhisperModel, opts.Language)

	// Progress output is throttled with state local to this call, not a
	// package-level counter.
	lastProgress := time.Now()
	onProgress := func(processed, total float64) {
		if time.Since(lastProgress) < progressLogInterval {
			return
		}
		lastProgress = time.Now()
		log.Info().
			Float64("processed_s", processed).
			Float64("total_s", total).
			Msg("Transcription in progress")
	}

	result, err := backend.Transcribe(ctx, tempAudio, onProgress)
	if err != nil {
		log.Error().Err(err).Msg("Transcription failed")
		return nil, false
	}
	if len(result.Segments) == 0 {
		log.Warn().Msg("Transcription produced no segments")
		return nil, false
	}

	srtPath := filepath.Join(runDir, baseName+"_transcript.srt")
	if err := report.WriteTranscriptSRT(result.Segments, srtPath); err != nil {
		log.Error().Err(err).Msg("Failed to write transcript SRT")
	}

	return buildTranscriptEntries(ctx, opts, ffmpeg, runDir, result.Segments)
}

// buildTranscriptEntries pairs segments with extracted audio clips when
// per-segment extraction is enabled. A clip that fails to extract is
// logged and its segment kept without an audio reference.
func buildTranscriptEntries(ctx context.Context, opts Options, ffmpeg *media.FFmpeg, runDir string, segments []transcribe.Segment) ([]timeline.TranscriptEntry, bool) {
	extractAudio := opts.ExtractAudio
	var segmentsDir string
	if extractAudio {
		segmentsDir = filepath.Join(runDir, audioSegmentsDirName)
		if err := fsutil.EnsureDir(segmentsDir); err != nil {
			log.Error().Err(err).Msg("Per-segment audio extraction disabled: cannot create audio_segments directory")
			extractAudio = false
		} else {
			log.Info().Str("dir", segmentsDir).Msg("Audio segments will be saved")
		}
	}

	entries := make([]timeline.TranscriptEntry, 0, len(segments))
	audioAvailable := false
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		entry := timeline.TranscriptEntry{Segment: seg}

		if extractAudio {
			name := segmentClipName(seg.Start, seg.End)
			clipPath := filepath.Join(segmentsDir, name)
			if err := ffmpeg.ExtractAudioSegment(ctx, opts.VideoPath, clipPath, seg.Start, seg.End); err != nil {
				log.Warn().Str("segment", name).Err(err).Msg("Failed to extract audio segment")
			} else {
				// Relative URL within the report, always slash-separated.
				entry.AudioFile = audioSegmentsDirName + "/" + name
				audioAvailable = true
			}
		}

		entries = append(entries, entry)
	}
	return entries, audioAvailable
}

// segmentClipName derives a deterministic clip filename from the
// millisecond-truncated start and end of a segment.
func segmentClipName(startSec, endSec float64) string {
	return fmt.Sprintf("segment_%d-%d.mp3", int64(startSec*1000), int64(endSec*1000))
}
