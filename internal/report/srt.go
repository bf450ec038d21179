package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vlntnbb/SnapScript/internal/snapshot"
	"github.com/vlntnbb/SnapScript/internal/timecode"
	"github.com/vlntnbb/SnapScript/internal/transcribe"
)

// snapshotSubtitleDuration is how long each snapshot's filename is shown
// when the snapshot SRT is loaded as a subtitle track.
const snapshotSubtitleDuration = 0.5

// WriteSnapshotSRT writes an SRT file with one entry per snapshot; the
// entry text is the snapshot's image filename, displayed for half a second
// at its capture time.
func WriteSnapshotSRT(events []snapshot.Event, path string) error {
	var b strings.Builder
	for i, ev := range events {
		start := ev.CaptureTime.Seconds()
		end := start + snapshotSubtitleDuration

		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", timecode.FormatSRT(start), timecode.FormatSRT(end))
		fmt.Fprintf(&b, "%s\n\n", ev.Image)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot SRT %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("entries", len(events)).Msg("Snapshot SRT written")
	return nil
}

// WriteTranscriptSRT writes an SRT file with one entry per transcript
// segment, using the segment's own start and end times. Segments whose
// text is empty after trimming are skipped and do not consume an entry
// number.
func WriteTranscriptSRT(segments []transcribe.Segment, path string) error {
	var b strings.Builder
	num := 1
	for _, seg := range segments {
		text := transcribe.CleanText(seg.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "%d\n", num)
		fmt.Fprintf(&b, "%s --> %s\n", timecode.FormatSRT(seg.Start), timecode.FormatSRT(seg.End))
		fmt.Fprintf(&b, "%s\n\n", text)
		num++
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write transcript SRT %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("entries", num-1).Msg("Transcript SRT written")
	return nil
}
