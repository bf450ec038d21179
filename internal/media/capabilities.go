package media

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// Capabilities records which external collaborators are usable. Probed once
// at startup and threaded into the stages that need them.
type Capabilities struct {
	FFmpeg      bool
	FFprobe     bool
	Transcriber bool
}

// ProbeCapabilities checks the environment for ffmpeg, ffprobe, and a
// working faster-whisper installation reachable through python3.
func ProbeCapabilities(ctx context.Context) Capabilities {
	caps := Capabilities{}

	if _, err := exec.LookPath("ffmpeg"); err == nil {
		caps.FFmpeg = true
	}
	if _, err := exec.LookPath("ffprobe"); err == nil {
		caps.FFprobe = true
	}

	if py, err := exec.LookPath("python3"); err == nil {
		cmd := exec.CommandContext(ctx, py, "-c", "import faster_whisper")
		if err := cmd.Run(); err == nil {
			caps.Transcriber = true
		}
	}

	log.Debug().
		Bool("ffmpeg", caps.FFmpeg).
		Bool("ffprobe", caps.FFprobe).
		Bool("transcriber", caps.Transcriber).
		Msg("External tool probe complete")

	return caps
}
