// Package report renders the run's outputs: SRT subtitle files and the
// combined chronological HTML report. The HTML renderer has two
// strategies: an html/template over embedded assets, and a plain
// dependency-free string builder used when templating fails.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vlntnbb/SnapScript/internal/timecode"
	"github.com/vlntnbb/SnapScript/internal/timeline"
)

//go:embed templates/report.html
var reportTemplate string

//go:embed templates/styles.css
var stylesCSS []byte

//go:embed templates/audio_controls.js
var audioControlsJS []byte

// eventView is the template-facing shape of one timeline event.
type eventView struct {
	IsSnapshot bool
	TimeStr    string
	Image      string
	ID         int64
	Text       string
	AudioFile  string
}

// reportData is the full template context.
type reportData struct {
	Title          string
	Events         []eventView
	AudioAvailable bool
}

// Generator writes the combined HTML report. When the embedded template
// cannot be parsed or executed it falls back to a built-in static HTML
// generator instead of failing the run.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator prepares the template renderer. A parse failure is logged
// and the generator degrades to the fallback strategy.
func NewGenerator() *Generator {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		log.Warn().Err(err).Msg("Report template unusable, falling back to basic HTML generator")
		return &Generator{}
	}
	return &Generator{tmpl: tmpl}
}

// WriteReport renders the merged timeline as report.html in outputDir and
// copies the stylesheet (and the audio controls script when audio segments
// are available) beside it.
func (g *Generator) WriteReport(events []timeline.Event, outputDir, baseName string, audioAvailable bool) error {
	htmlPath := filepath.Join(outputDir, "report.html")
	log.Info().Str("path", htmlPath).Int("events", len(events)).Msg("Generating combined HTML report")

	if err := os.WriteFile(filepath.Join(outputDir, "styles.css"), stylesCSS, 0o644); err != nil {
		log.Error().Err(err).Msg("Failed to copy stylesheet into report directory")
	}
	if audioAvailable {
		if err := os.WriteFile(filepath.Join(outputDir, "audio_controls.js"), audioControlsJS, 0o644); err != nil {
			log.Error().Err(err).Msg("Failed to copy audio controls script into report directory")
		}
	}

	data := reportData{
		Title:          "Combined report: " + baseName,
		Events:         buildViews(events),
		AudioAvailable: audioAvailable,
	}

	content, err := g.render(data)
	if err != nil {
		log.Error().Err(err).Msg("Template rendering failed, using basic HTML generator")
		content = renderFallback(data)
	}

	if err := os.WriteFile(htmlPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML report %s: %w", htmlPath, err)
	}
	log.Info().Str("path", htmlPath).Msg("Combined HTML report written")
	return nil
}

// render executes the template strategy; errors select the fallback.
func (g *Generator) render(data reportData) (string, error) {
	if g.tmpl == nil {
		return "", fmt.Errorf("report template not available")
	}
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}
	return buf.String(), nil
}

// buildViews converts timeline events to their display shape. Transcript
// element ids are derived from the millisecond start time, matching the
// audio clip naming.
func buildViews(events []timeline.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		switch ev.Kind {
		case timeline.KindSnapshot:
			views = append(views, eventView{
				IsSnapshot: true,
				TimeStr:    timecode.FormatClock(ev.Timestamp),
				Image:      ev.Image,
			})
		case timeline.KindTranscript:
			views = append(views, eventView{
				ID:        int64(ev.Timestamp * 1000),
				Text:      ev.Text,
				AudioFile: ev.AudioFile,
			})
		}
	}
	return views
}

// renderFallback builds the report without any templating engine. Styling
// is minimal and the audio controls are inlined without auto-advance; the
// goal is a readable report even when templating is broken.
func renderFallback(data reportData) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", html.EscapeString(data.Title))
	b.WriteString("    <link rel=\"stylesheet\" href=\"styles.css\">\n")
	if data.AudioAvailable {
		b.WriteString(fallbackAudioScript)
	}
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "    <h1>%s</h1>\n", html.EscapeString(data.Title))
	b.WriteString("    <div class=\"timeline\">\n")

	for _, ev := range data.Events {
		if ev.IsSnapshot {
			b.WriteString("    <div class=\"event snapshot\">\n")
			fmt.Fprintf(&b, "        <div class=\"event-time\">Snapshot: %s</div>\n", ev.TimeStr)
			fmt.Fprintf(&b, "        <div class=\"snapshot\"><img src=%q alt=\"Snapshot %s\"></div>\n",
				ev.Image, ev.TimeStr)
			b.WriteString("    </div>\n")
			continue
		}

		b.WriteString("    <div class=\"transcript\">\n")
		if data.AudioAvailable && ev.AudioFile != "" {
			fmt.Fprintf(&b, "        <div class=\"audio-player\">\n")
			fmt.Fprintf(&b, "            <audio id=\"audio_%d\" src=%q></audio>\n", ev.ID, ev.AudioFile)
			fmt.Fprintf(&b, "            <button id=\"btn_audio_%d\" class=\"play-button\" onclick=\"playAudio('audio_%d', this)\">&#9654;</button>\n",
				ev.ID, ev.ID)
			b.WriteString("        </div>\n")
		}
		fmt.Fprintf(&b, "        <p>%s</p>\n", html.EscapeString(ev.Text))
		b.WriteString("    </div>\n")
	}

	b.WriteString("    </div>\n</body>\n</html>\n")
	return b.String()
}

const fallbackAudioScript = `    <script>
        let currentlyPlaying = null;
        let currentButton = null;

        function playAudio(audioId, buttonElement) {
            const audioElement = document.getElementById(audioId);

            if (currentButton) {
                currentButton.classList.remove('playing');
                currentButton.innerHTML = '▶';
            }
            if (currentlyPlaying && currentlyPlaying !== audioElement) {
                currentlyPlaying.pause();
                currentlyPlaying.currentTime = 0;
            }
            if (currentlyPlaying === audioElement && !audioElement.paused) {
                audioElement.pause();
                currentlyPlaying = null;
                currentButton = null;
                return;
            }

            audioElement.play();
            currentlyPlaying = audioElement;
            currentButton = buttonElement;
            currentButton.classList.add('playing');
            currentButton.innerHTML = '⏸';

            audioElement.onended = function () {
                if (currentButton) {
                    currentButton.classList.remove('playing');
                    currentButton.innerHTML = '▶';
                }
                currentlyPlaying = null;
                currentButton = null;
            };
        }
    </script>
`
