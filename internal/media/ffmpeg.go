// Package media wraps the external ffmpeg/ffprobe tools: metadata probing,
// audio track extraction, per-segment clip cutting, and single-frame
// decoding. All operations shell out; nothing here touches codecs directly.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/vlntnbb/SnapScript/internal/timecode"
)

// Whole-track audio extraction parameters. 16 kHz mono PCM is what the
// Whisper family of models expects as input.
const (
	audioSampleRate = 16000
	audioCodec      = "pcm_s16le"
)

// Per-segment clip parameters: MP3 suitable for inline playback in the
// HTML report.
const (
	segmentSampleRate = 44100
	segmentBitrate    = "128k"
	segmentCodec      = "mp3"
)

// FFmpeg shells out to the ffmpeg binary found on PATH.
type FFmpeg struct {
	path string
}

// NewFFmpeg locates ffmpeg on PATH.
func NewFFmpeg() (*FFmpeg, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &FFmpeg{path: path}, nil
}

// ExtractAudio extracts the full audio track of a video as 16 kHz mono WAV.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, outputPath string) error {
	log.Info().Str("video", videoPath).Str("audio", outputPath).Msg("Extracting audio track")

	return f.run(ctx,
		"-i", videoPath,
		"-vn",
		"-acodec", audioCodec,
		"-ar", strconv.Itoa(audioSampleRate),
		"-ac", "1",
		"-y",
		outputPath,
	)
}

// ExtractAudioSegment cuts the audio of [startSec, endSec) into a standalone
// MP3 clip.
func (f *FFmpeg) ExtractAudioSegment(ctx context.Context, videoPath, outputPath string, startSec, endSec float64) error {
	duration := endSec - startSec

	return f.run(ctx,
		"-i", videoPath,
		"-ss", fmt.Sprintf("%.3f", startSec),
		"-t", fmt.Sprintf("%.3f", duration),
		"-vn",
		"-acodec", segmentCodec,
		"-ar", strconv.Itoa(segmentSampleRate),
		"-ac", "2",
		"-ab", segmentBitrate,
		"-y",
		outputPath,
	)
}

// DecodeFrame seeks to the given position and decodes exactly one frame as
// a JPEG at outputPath. Returns an error when ffmpeg fails or produces no
// image (for example when seeking past the end of the stream).
func (f *FFmpeg) DecodeFrame(ctx context.Context, videoPath string, at timecode.Timecode, outputPath string) error {
	err := f.run(ctx,
		"-ss", fmt.Sprintf("%.6f", at.Seconds()),
		"-i", videoPath,
		"-frames:v", "1",
		"-qscale:v", "2",
		"-y",
		outputPath,
	)
	if err != nil {
		return err
	}

	// ffmpeg exits 0 but writes nothing when the seek lands past the last
	// decodable frame.
	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("no frame decoded at %s", at)
	}
	return nil
}

// run executes ffmpeg with the given arguments. On failure the error
// carries the full command line, exit status, and captured output so the
// invocation can be reproduced.
func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, f.path, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error().
			Str("command", cmd.String()).
			Str("output", string(output)).
			Err(err).
			Msg("ffmpeg invocation failed")
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}
