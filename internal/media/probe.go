package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// VideoInfo holds the probed properties of a video file that the pipeline
// needs: duration, frame rate, and whether an audio stream is present.
type VideoInfo struct {
	Duration  float64
	FrameRate float64
	Width     int
	Height    int
	HasAudio  bool
}

// ffprobeOutput represents the JSON structure from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
}

// Probe extracts duration and frame rate from a video file using ffprobe.
func Probe(ctx context.Context, videoPath string) (*VideoInfo, error) {
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbeOutput(output)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Float64("duration_s", info.Duration).
		Float64("frame_rate", info.FrameRate).
		Int("width", info.Width).
		Int("height", info.Height).
		Bool("has_audio", info.HasAudio).
		Str("video", videoPath).
		Msg("Video probed")

	return info, nil
}

// parseProbeOutput decodes ffprobe JSON into a VideoInfo.
func parseProbeOutput(output []byte) (*VideoInfo, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &VideoInfo{}

	if probe.Format.Duration != "" {
		info.Duration, _ = strconv.ParseFloat(probe.Format.Duration, 64)
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if info.Width == 0 {
				info.Width = stream.Width
				info.Height = stream.Height
			}
			if info.FrameRate == 0 {
				if stream.RFrameRate != "" {
					info.FrameRate = parseFrameRate(stream.RFrameRate)
				}
				if info.FrameRate == 0 && stream.AvgFrameRate != "" {
					info.FrameRate = parseFrameRate(stream.AvgFrameRate)
				}
			}
			// Some containers only carry duration at stream level.
			if info.Duration == 0 && stream.Duration != "" {
				info.Duration, _ = strconv.ParseFloat(stream.Duration, 64)
			}
		case "audio":
			info.HasAudio = true
		}
	}

	if info.FrameRate == 0 {
		return nil, fmt.Errorf("no video stream with a frame rate found")
	}

	return info, nil
}

// parseFrameRate parses frame rate from ffprobe format (e.g., "30000/1001" -> 29.97).
func parseFrameRate(value string) float64 {
	parts := strings.Split(value, "/")
	if len(parts) == 2 {
		num, _ := strconv.ParseFloat(parts[0], 64)
		den, _ := strconv.ParseFloat(parts[1], 64)
		if den != 0 {
			return num / den
		}
	}
	rate, _ := strconv.ParseFloat(value, 64)
	return rate
}
