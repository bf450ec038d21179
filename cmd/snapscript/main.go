package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vlntnbb/SnapScript/internal/detect"
	"github.com/vlntnbb/SnapScript/internal/logging"
	"github.com/vlntnbb/SnapScript/internal/pipeline"
	"github.com/vlntnbb/SnapScript/internal/snapshot"
	"github.com/vlntnbb/SnapScript/internal/transcribe"
)

// CLI flags
var (
	outputFlag       string
	thresholdFlag    float64
	offsetFlag       float64
	transcribeFlag   bool
	whisperModelFlag string
	languageFlag     string
	extractAudioFlag bool
	verboseFlag      bool
	logFileFlag      string
)

// errInterrupted marks a run stopped by the user, mapped to exit code 130.
var errInterrupted = errors.New("interrupted")

// rootCmd is the main Cobra command for the snapscript CLI.
var rootCmd = &cobra.Command{
	Use:   "snapscript <video-file>",
	Short: "Extract scene-change snapshots from a video and build a chronological report",
	Long: `SnapScript detects scene changes in a video, saves one stabilized snapshot
per scene, optionally transcribes the speech track with faster-whisper, and
assembles an HTML report correlating snapshots with transcript text.

Outputs go to a uniquely named directory under the output base; a prior
run's directory is never overwritten.

Examples:
  snapscript movie.mp4
  snapscript movie.mp4 -o reports -t 20 --stabilization-offset 1.0
  snapscript movie.mp4 --transcribe --whisper-model small
  snapscript movie.mp4 --transcribe --extract-audio -v --log-file run.log`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "userdata", "Base directory for run output folders")
	rootCmd.Flags().Float64VarP(&thresholdFlag, "threshold", "t", detect.DefaultThreshold, "Scene detection sensitivity threshold (lower = more sensitive)")
	rootCmd.Flags().Float64Var(&offsetFlag, "stabilization-offset", snapshot.DefaultStabilizationOffset, "Offset in seconds from a scene's start for the stabilized snapshot")
	rootCmd.Flags().BoolVar(&transcribeFlag, "transcribe", false, "Extract and transcribe the audio track")
	rootCmd.Flags().StringVar(&whisperModelFlag, "whisper-model", transcribe.DefaultModel,
		"Whisper model size: "+strings.Join(transcribe.ModelSizes, "|"))
	rootCmd.Flags().StringVar(&languageFlag, "language", "", "Transcription language code (default: auto-detect)")
	rootCmd.Flags().BoolVar(&extractAudioFlag, "extract-audio", false, "Extract audio for each transcript segment and add players to the report")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "Also write logs to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errInterrupted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) error {
	closeLog, err := logging.Init(verboseFlag, logFileFlag)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info().Msg("SnapScript: scene-change snapshot extraction and transcription")

	if offsetFlag < 0 {
		return fmt.Errorf("stabilization offset must be >= 0, got %v", offsetFlag)
	}
	if transcribeFlag && !transcribe.ValidModelSize(whisperModelFlag) {
		return fmt.Errorf("unknown whisper model %q, expected one of: %s",
			whisperModelFlag, strings.Join(transcribe.ModelSizes, ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pipeline.Options{
		VideoPath:           args[0],
		OutputBase:          outputFlag,
		Threshold:           thresholdFlag,
		StabilizationOffset: offsetFlag,
		Transcribe:          transcribeFlag,
		WhisperModel:        whisperModelFlag,
		Language:            languageFlag,
		ExtractAudio:        extractAudioFlag,
	}

	err = pipeline.Run(ctx, opts)

	if ctx.Err() != nil {
		log.Info().Msg("Interrupted by user")
		return errInterrupted
	}
	if err != nil {
		log.Error().Err(err).Msg("Processing finished with errors")
		return err
	}

	log.Info().Msg("Processing finished successfully")
	return nil
}
