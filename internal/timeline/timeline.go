// Package timeline merges the independently timed snapshot and transcript
// event streams into one time-ordered sequence for the report renderer.
package timeline

import (
	"sort"
	"strings"

	"github.com/vlntnbb/SnapScript/internal/snapshot"
	"github.com/vlntnbb/SnapScript/internal/transcribe"
)

// Kind tags an Event's payload.
type Kind string

const (
	KindSnapshot   Kind = "snapshot"
	KindTranscript Kind = "transcript"
)

// Event is one unit of the merged timeline. Timestamp is the sort key in
// seconds. Snapshot events carry Image; transcript events carry Text,
// EndTime, and optionally AudioFile.
type Event struct {
	Kind      Kind
	Timestamp float64

	// Snapshot payload.
	Image string

	// Transcript payload.
	Text      string
	EndTime   float64
	AudioFile string
}

// TranscriptEntry pairs a transcript segment with the audio clip extracted
// for it, if any.
type TranscriptEntry struct {
	Segment   transcribe.Segment
	AudioFile string
}

// Merge combines snapshot and transcript events into a single sequence,
// non-decreasing in Timestamp. The sort is stable and snapshots are
// appended first, so at exact timestamp equality a snapshot precedes a
// transcript. Transcript entries whose text is empty after trimming are
// dropped. Inputs are not mutated; both empty yields an empty result.
func Merge(snapshots []snapshot.Event, transcripts []TranscriptEntry) []Event {
	events := make([]Event, 0, len(snapshots)+len(transcripts))

	for _, s := range snapshots {
		events = append(events, Event{
			Kind:      KindSnapshot,
			Timestamp: s.CaptureTime.Seconds(),
			Image:     s.Image,
		})
	}

	for _, t := range transcripts {
		text := strings.TrimSpace(t.Segment.Text)
		if text == "" {
			continue
		}
		events = append(events, Event{
			Kind:      KindTranscript,
			Timestamp: t.Segment.Start,
			Text:      text,
			EndTime:   t.Segment.End,
			AudioFile: t.AudioFile,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})

	return events
}
