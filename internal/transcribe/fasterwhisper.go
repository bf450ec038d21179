package transcribe

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed assets/faster_whisper.py
var helperScript []byte

// fasterWhisperBackend runs faster-whisper through a python3 helper script
// and consumes its streamed JSON output.
type fasterWhisperBackend struct {
	model    string
	device   string
	language string
}

// NewFasterWhisperBackend creates a Backend using the given model size and
// detection language. An empty language means auto-detect.
func NewFasterWhisperBackend(model, language string) Backend {
	if !ValidModelSize(model) {
		model = DefaultModel
	}
	return &fasterWhisperBackend{model: model, device: "cpu", language: language}
}

// helperLine is one JSON line emitted by the helper script.
type helperLine struct {
	Type                string  `json:"type"`
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Duration            float64 `json:"duration"`
	Start               float64 `json:"start"`
	End                 float64 `json:"end"`
	Text                string  `json:"text"`
}

func (b *fasterWhisperBackend) Transcribe(ctx context.Context, audioPath string, onProgress ProgressFunc) (Result, error) {
	scriptPath := filepath.Join(os.TempDir(), "snapscript_faster_whisper.py")
	if err := os.WriteFile(scriptPath, helperScript, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	py, err := exec.LookPath("python3")
	if err != nil {
		return Result{}, fmt.Errorf("python3 not found in PATH: %w", err)
	}

	log.Info().
		Str("model", b.model).
		Str("device", b.device).
		Str("audio", audioPath).
		Msg("Transcribing audio (this can take a while)")

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", b.model,
		"--device", b.device,
	}
	if b.language != "" {
		args = append(args, "--language", b.language)
	}

	cmd := exec.CommandContext(ctx, py, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open helper stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("failed to start transcription helper: %w", err)
	}

	result, decodeErr := decodeStream(stdout, onProgress)

	if err := cmd.Wait(); err != nil {
		log.Error().
			Str("command", cmd.String()).
			Str("stderr", strings.TrimSpace(stderr.String())).
			Err(err).
			Msg("Transcription helper failed")
		return Result{}, fmt.Errorf("transcription failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if decodeErr != nil {
		return Result{}, decodeErr
	}

	log.Info().
		Str("language", result.Language).
		Float64("language_probability", result.LanguageProbability).
		Float64("duration_s", result.Duration).
		Int("segments", len(result.Segments)).
		Msg("Transcription complete")

	return result, nil
}

// decodeStream reads the helper's JSON lines, mapping them into a Result
// and reporting progress per decoded segment.
func decodeStream(r io.Reader, onProgress ProgressFunc) (Result, error) {
	var result Result
	sawInfo := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var line helperLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return Result{}, fmt.Errorf("failed to parse helper output: %w: %s", err, raw)
		}
		switch line.Type {
		case "info":
			result.Language = line.Language
			result.LanguageProbability = line.LanguageProbability
			result.Duration = line.Duration
			sawInfo = true
		case "segment":
			result.Segments = append(result.Segments, Segment{
				Start: line.Start,
				End:   line.End,
				Text:  CleanText(line.Text),
			})
			if onProgress != nil {
				onProgress(line.End, result.Duration)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("failed to read helper output: %w", err)
	}
	if !sawInfo {
		return Result{}, fmt.Errorf("helper produced no transcription info")
	}
	return result, nil
}
