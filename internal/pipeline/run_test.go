package pipeline

import (
	"testing"

	"github.com/vlntnbb/SnapScript/internal/media"
)

func TestPreflight(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		caps    media.Capabilities
		wantErr bool
	}{
		{
			name: "All tools present",
			opts: Options{Transcribe: true},
			caps: media.Capabilities{FFmpeg: true, FFprobe: true, Transcriber: true},
		},
		{
			name:    "Missing ffmpeg is fatal",
			opts:    Options{},
			caps:    media.Capabilities{FFprobe: true},
			wantErr: true,
		},
		{
			name:    "Missing ffprobe is fatal",
			opts:    Options{},
			caps:    media.Capabilities{FFmpeg: true},
			wantErr: true,
		},
		{
			name:    "Transcription without faster-whisper is fatal",
			opts:    Options{Transcribe: true},
			caps:    media.Capabilities{FFmpeg: true, FFprobe: true},
			wantErr: true,
		},
		{
			name: "Snapshots only need ffmpeg and ffprobe",
			opts: Options{},
			caps: media.Capabilities{FFmpeg: true, FFprobe: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := preflight(&tt.opts, tt.caps)
			if (err != nil) != tt.wantErr {
				t.Errorf("preflight() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSegmentClipName(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		end      float64
		expected string
	}{
		{
			name:     "Whole seconds",
			start:    1.0,
			end:      2.5,
			expected: "segment_1000-2500.mp3",
		},
		{
			name:     "Milliseconds truncate",
			start:    0.1239,
			end:      4.5678,
			expected: "segment_123-4567.mp3",
		},
		{
			name:     "Zero start",
			start:    0,
			end:      0.5,
			expected: "segment_0-500.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := segmentClipName(tt.start, tt.end); got != tt.expected {
				t.Errorf("segmentClipName(%v, %v) = %q, want %q", tt.start, tt.end, got, tt.expected)
			}
		})
	}
}
