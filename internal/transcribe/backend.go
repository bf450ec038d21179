// Package transcribe converts an audio track into timed speech segments.
// Inference is delegated to an external speech-to-text model; this package
// defines the backend contract and maps the model's native output into
// explicit records so the rest of the system never depends on its shape.
package transcribe

import (
	"context"
	"strings"
)

// Model sizes accepted by the faster-whisper backend, fastest/smallest to
// slowest/most accurate.
const (
	ModelTiny    = "tiny"
	ModelBase    = "base"
	ModelSmall   = "small"
	ModelMedium  = "medium"
	ModelLargeV1 = "large-v1"
	ModelLargeV2 = "large-v2"
	ModelLargeV3 = "large-v3"
)

// DefaultModel balances accuracy and speed.
const DefaultModel = ModelMedium

// ModelSizes lists the accepted model size names in ascending accuracy order.
var ModelSizes = []string{
	ModelTiny, ModelBase, ModelSmall, ModelMedium,
	ModelLargeV1, ModelLargeV2, ModelLargeV3,
}

// ValidModelSize reports whether name is an accepted model size.
func ValidModelSize(name string) bool {
	for _, m := range ModelSizes {
		if name == m {
			return true
		}
	}
	return false
}

// Segment is one timed span of recognized speech. Text is already trimmed
// with internal newlines collapsed to spaces; it may still be empty when
// the model emitted a silent span.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Result is a complete transcription of one audio file.
type Result struct {
	Language            string
	LanguageProbability float64
	Duration            float64
	Segments            []Segment
}

// ProgressFunc is called as transcription advances, with the position
// processed so far and the total audio duration, both in seconds.
type ProgressFunc func(processedSec, totalSec float64)

// Backend is a pluggable transcription backend.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string, onProgress ProgressFunc) (Result, error)
}

// CleanText normalizes recognized text: surrounding whitespace is trimmed
// and internal newlines become single spaces.
func CleanText(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
}
