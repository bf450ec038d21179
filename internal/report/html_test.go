package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vlntnbb/SnapScript/internal/timeline"
)

func sampleEvents() []timeline.Event {
	return []timeline.Event{
		{Kind: timeline.KindSnapshot, Timestamp: 0.52, Image: "1.jpg"},
		{Kind: timeline.KindTranscript, Timestamp: 1.0, EndTime: 2.5, Text: "hello world",
			AudioFile: "audio_segments/segment_1000-2500.mp3"},
		{Kind: timeline.KindSnapshot, Timestamp: 10.0, Image: "2.jpg"},
	}
}

func TestWriteReportTemplate(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator()
	if g.tmpl == nil {
		t.Fatal("embedded template failed to parse")
	}

	if err := g.WriteReport(sampleEvents(), dir, "movie", true); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "report.html"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(content)

	for _, want := range []string{
		"Combined report: movie",
		`<img src="1.jpg"`,
		`<img src="2.jpg"`,
		"hello world",
		`id="audio_1000"`,
		`src="audio_segments/segment_1000-2500.mp3"`,
		"audio_controls.js",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report.html missing %q:\n%s", want, got)
		}
	}

	// Snapshot event order preserved with its clock timecode.
	if !strings.Contains(got, "Snapshot: 00:00:00") {
		t.Errorf("report.html missing first snapshot timecode:\n%s", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "styles.css")); err != nil {
		t.Error("styles.css was not copied into the report directory")
	}
	if _, err := os.Stat(filepath.Join(dir, "audio_controls.js")); err != nil {
		t.Error("audio_controls.js was not copied into the report directory")
	}
}

func TestWriteReportWithoutAudio(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator()

	events := sampleEvents()
	for i := range events {
		events[i].AudioFile = ""
	}

	if err := g.WriteReport(events, dir, "movie", false); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "report.html"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(content), "audio_controls.js") {
		t.Error("report.html references audio_controls.js although audio is disabled")
	}
	if _, err := os.Stat(filepath.Join(dir, "audio_controls.js")); !os.IsNotExist(err) {
		t.Error("audio_controls.js copied although audio is disabled")
	}
}

func TestWriteReportFallback(t *testing.T) {
	dir := t.TempDir()
	g := &Generator{} // no template: forces the fallback strategy

	if err := g.WriteReport(sampleEvents(), dir, "movie", true); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "report.html"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(content)

	for _, want := range []string{
		"Combined report: movie",
		`<img src="1.jpg"`,
		"hello world",
		"playAudio('audio_1000', this)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("fallback report missing %q:\n%s", want, got)
		}
	}
}

func TestFallbackEscapesText(t *testing.T) {
	data := reportData{
		Title: "Combined report: movie",
		Events: []eventView{
			{Text: "<script>alert(1)</script>", ID: 0},
		},
	}
	got := renderFallback(data)
	if strings.Contains(got, "<script>alert(1)</script>") {
		t.Error("fallback renderer did not escape transcript text")
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Error("fallback renderer missing escaped transcript text")
	}
}
