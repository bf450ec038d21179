// Package timecode provides frame-rate-aware time positions for video
// processing. Arithmetic is performed on frame indices rather than raw
// floating-point seconds so positions always land on actual frame
// boundaries.
package timecode

import (
	"fmt"
	"math"
)

// Timecode is a position in a video, stored as a frame index at a known
// frame rate. The zero value is frame 0 at 0 fps and is not usable for
// arithmetic; construct values with New or FromSeconds.
type Timecode struct {
	frame int64
	fps   float64
}

// New returns a Timecode at the given frame index and frame rate.
func New(frame int64, fps float64) Timecode {
	if frame < 0 {
		frame = 0
	}
	return Timecode{frame: frame, fps: fps}
}

// FromSeconds converts a position in seconds to a Timecode at the given
// frame rate, rounding to the nearest frame.
func FromSeconds(seconds float64, fps float64) Timecode {
	if seconds < 0 {
		seconds = 0
	}
	return Timecode{frame: int64(math.Round(seconds * fps)), fps: fps}
}

// Frame returns the frame index.
func (t Timecode) Frame() int64 { return t.frame }

// FPS returns the frame rate the index is relative to.
func (t Timecode) FPS() float64 { return t.fps }

// Seconds returns the position in seconds.
func (t Timecode) Seconds() float64 {
	if t.fps == 0 {
		return 0
	}
	return float64(t.frame) / t.fps
}

// AddSeconds returns the Timecode advanced by the given number of seconds,
// quantized to whole frames.
func (t Timecode) AddSeconds(seconds float64) Timecode {
	return Timecode{frame: t.frame + int64(math.Round(seconds*t.fps)), fps: t.fps}
}

// AddFrames returns the Timecode advanced by n frames. Negative n moves
// backwards; the result is clamped at frame 0.
func (t Timecode) AddFrames(n int64) Timecode {
	f := t.frame + n
	if f < 0 {
		f = 0
	}
	return Timecode{frame: f, fps: t.fps}
}

// Before reports whether t is strictly earlier than other.
func (t Timecode) Before(other Timecode) bool { return t.frame < other.frame }

// String returns the position as a HH:MM:SS.mmm clock string.
func (t Timecode) String() string {
	return FormatClock(t.Seconds())
}

// FormatSRT formats a position in seconds as an SRT timestamp
// (HH:MM:SS,mmm with a comma millisecond separator, zero-padded).
func FormatSRT(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// FormatClock formats a position in seconds as a human-readable HH:MM:SS
// clock string (whole seconds, truncated).
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
