package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"metrotram/backend/services/tram-bot/internal/models"
)

// Variable markers of the board page script.
const (
	markerStops  = "var stops"
	markerLines  = "var lines"
	markerPanels = "var panels"

	// dataScriptHint selects the script element that carries board data.
	dataScriptHint = "lines"
)

// Fragments are the raw JSON texts assigned to the three page variables.
// A fragment is empty when its marker was not found.
type Fragments struct {
	Lines  string
	Stops  string
	Panels string
}

// Extractor pulls the raw data fragments out of the board HTML.
type Extractor interface {
	Extract(html string) (Fragments, error)
}

// ScriptExtractor finds the first inline script mentioning lines and splits it
// into statements on ';', keeping the right-hand side of each known variable.
type ScriptExtractor struct{}

// NewScriptExtractor returns extractor.
func NewScriptExtractor() *ScriptExtractor {
	return &ScriptExtractor{}
}

// Extract implements Extractor.
func (e *ScriptExtractor) Extract(html string) (Fragments, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Fragments{}, fmt.Errorf("scraper: parse html: %w: %v", models.ErrExtraction, err)
	}

	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, dataScriptHint) {
			script = text
			return false
		}
		return true
	})

	return SplitStatements(script), nil
}

// SplitStatements applies the marker matching to raw script text.
func SplitStatements(script string) Fragments {
	var out Fragments
	for _, stmt := range strings.Split(script, ";") {
		switch {
		case strings.Contains(stmt, markerStops):
			out.Stops = stripMarker(stmt, markerStops)
		case strings.Contains(stmt, markerLines):
			out.Lines = stripMarker(stmt, markerLines)
		case strings.Contains(stmt, markerPanels):
			out.Panels = stripMarker(stmt, markerPanels)
		}
	}
	return out
}

func stripMarker(stmt, marker string) string {
	rest := stmt[strings.Index(stmt, marker)+len(marker):]
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "=")
	return strings.TrimSpace(rest)
}
