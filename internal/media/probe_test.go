package media

import (
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "Standard 30 fps", input: "30/1", expected: 30.0},
		{name: "Standard 25 fps", input: "25/1", expected: 25.0},
		{name: "NTSC 29.97 fps", input: "30000/1001", expected: 29.97002997},
		{name: "Plain number", input: "24", expected: 24.0},
		{name: "Zero denominator", input: "30/0", expected: 0},
		{name: "Empty string", input: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFrameRate(tt.input)
			if !floatEquals(got, tt.expected, 0.0001) {
				t.Errorf("parseFrameRate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseProbeOutput(t *testing.T) {
	payload := []byte(`{
		"format": {"duration": "120.5"},
		"streams": [
			{"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "25/1"},
			{"codec_type": "audio", "sample_rate": "48000"}
		]
	}`)

	info, err := parseProbeOutput(payload)
	if err != nil {
		t.Fatalf("parseProbeOutput returned error: %v", err)
	}
	if info.Duration != 120.5 {
		t.Errorf("Duration = %v, want 120.5", info.Duration)
	}
	if info.FrameRate != 25.0 {
		t.Errorf("FrameRate = %v, want 25.0", info.FrameRate)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("resolution = %dx%d, want 1920x1080", info.Width, info.Height)
	}
	if !info.HasAudio {
		t.Error("HasAudio = false, want true")
	}
}

func TestParseProbeOutputStreamDurationFallback(t *testing.T) {
	payload := []byte(`{
		"format": {},
		"streams": [
			{"codec_type": "video", "r_frame_rate": "0/0", "avg_frame_rate": "30/1", "duration": "42.0"}
		]
	}`)

	info, err := parseProbeOutput(payload)
	if err != nil {
		t.Fatalf("parseProbeOutput returned error: %v", err)
	}
	if info.FrameRate != 30.0 {
		t.Errorf("FrameRate = %v, want 30.0 (avg_frame_rate fallback)", info.FrameRate)
	}
	if info.Duration != 42.0 {
		t.Errorf("Duration = %v, want 42.0 (stream duration fallback)", info.Duration)
	}
	if info.HasAudio {
		t.Error("HasAudio = true, want false")
	}
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	payload := []byte(`{"format": {"duration": "10"}, "streams": [{"codec_type": "audio"}]}`)

	if _, err := parseProbeOutput(payload); err == nil {
		t.Error("parseProbeOutput accepted input without a video stream")
	}
}

func floatEquals(a, b, tolerance float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
