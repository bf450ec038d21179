package detect

import (
	"testing"
)

const showinfoSample = `[Parsed_showinfo_1 @ 0x55d] n:   0 pts: 128000 pts_time:5.12    pos: 123 fmt:yuv420p
[Parsed_showinfo_1 @ 0x55d] n:   1 pts: 300000 pts_time:12.0    pos: 456 fmt:yuv420p
[Parsed_showinfo_1 @ 0x55d] n:   2 pts: 300000 pts_time:12.0    pos: 456 fmt:yuv420p
frame=  3 fps=0.0 q=-0.0 Lsize=N/A time=00:00:30.00 bitrate=N/A
`

func TestParseCutTimes(t *testing.T) {
	cuts := parseCutTimes([]byte(showinfoSample))
	want := []float64{5.12, 12.0}
	if len(cuts) != len(want) {
		t.Fatalf("parseCutTimes returned %d cuts, want %d: %v", len(cuts), len(want), cuts)
	}
	for i := range want {
		if cuts[i] != want[i] {
			t.Errorf("cuts[%d] = %v, want %v", i, cuts[i], want[i])
		}
	}
}

func TestParseCutTimesEmpty(t *testing.T) {
	if cuts := parseCutTimes([]byte("frame=  0 fps=0.0\n")); len(cuts) != 0 {
		t.Errorf("parseCutTimes on cut-free output = %v, want empty", cuts)
	}
}

func TestBuildScenes(t *testing.T) {
	scenes := buildScenes([]float64{5.0, 12.0}, 30.0, 25.0)
	if len(scenes) != 3 {
		t.Fatalf("buildScenes returned %d scenes, want 3", len(scenes))
	}

	if scenes[0].Start.Seconds() != 0 {
		t.Errorf("first scene starts at %v, want 0", scenes[0].Start.Seconds())
	}
	if scenes[0].End.Frame() != scenes[1].Start.Frame() {
		t.Error("scenes must be contiguous: scene 1 end != scene 2 start")
	}
	if scenes[2].End.Seconds() != 30.0 {
		t.Errorf("last scene ends at %v, want 30.0", scenes[2].End.Seconds())
	}

	for i, s := range scenes {
		if !s.Start.Before(s.End) {
			t.Errorf("scene %d: start %v not before end %v", i+1, s.Start, s.End)
		}
	}
}

func TestBuildScenesNoCuts(t *testing.T) {
	if scenes := buildScenes(nil, 30.0, 25.0); scenes != nil {
		t.Errorf("buildScenes(nil cuts) = %v, want nil", scenes)
	}
}

func TestBuildScenesIgnoresOutOfRangeCuts(t *testing.T) {
	// Cuts at 0 or past the end carry no scene information.
	if scenes := buildScenes([]float64{0, 35.0}, 30.0, 25.0); scenes != nil {
		t.Errorf("buildScenes with only out-of-range cuts = %v, want nil", scenes)
	}
}

func TestNewDetectorThresholdFallback(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "Valid threshold kept", input: 15.0, expected: 15.0},
		{name: "Zero falls back", input: 0, expected: DefaultThreshold},
		{name: "Negative falls back", input: -3, expected: DefaultThreshold},
		{name: "Above scale falls back", input: 150, expected: DefaultThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(tt.input)
			if d.threshold != tt.expected {
				t.Errorf("NewDetector(%v).threshold = %v, want %v", tt.input, d.threshold, tt.expected)
			}
		})
	}
}
