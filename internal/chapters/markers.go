package chapters

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/metcalfc/folio/internal/reflow"
)

const (
	// maxCapsMarker bounds the length of an all-caps marker line.
	maxCapsMarker = 70
	// markerProximity is how close, in lines, a marker may follow the
	// previous one before it is discarded as a duplicate.
	markerProximity = 2
	// prologueAfterLine is the first-marker line past which the leading
	// text becomes a prologue.
	prologueAfterLine = 20
)

const numberWord = `(?:\d+|[ivxlcdm]+|one|two|three|four|five|six|seven|eight|nine|ten)\b`

var (
	chapterNumberRegex = regexp.MustCompile(`(?i)^chapter\s+` + numberWord)
	partNumberRegex    = regexp.MustCompile(`(?i)^part\s+` + numberWord)
)

// marker is an accepted chapter heading. line is -1 for the synthetic
// prologue.
type marker struct {
	line  int
	title string
}

// isMarkerLine reports whether a line looks like a chapter or part heading.
func isMarkerLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if reflow.IsHeading(s) || chapterNumberRegex.MatchString(s) || partNumberRegex.MatchString(s) {
		return true
	}
	return utf8.RuneCountInString(s) < maxCapsMarker && reflow.IsAllCaps(s)
}

// nextToBlank reports whether lines[i] has a blank line (or the document
// edge) directly above or below it.
func nextToBlank(lines []string, i int) bool {
	above := i == 0 || strings.TrimSpace(lines[i-1]) == ""
	below := i == len(lines)-1 || strings.TrimSpace(lines[i+1]) == ""
	return above || below
}

// findMarkers scans lines for chapter headings.
func findMarkers(lines []string, hints Hints) []marker {
	title := strings.TrimSpace(hints.Title)

	var markers []marker
	for i, line := range lines {
		if !isMarkerLine(line) || !nextToBlank(lines, i) {
			continue
		}
		text := strings.TrimSpace(line)
		if title != "" && strings.EqualFold(text, title) {
			continue
		}
		if n := len(markers); n > 0 && i-markers[n-1].line <= markerProximity {
			continue
		}
		markers = append(markers, marker{line: i, title: text})
	}

	if len(markers) > 0 && markers[0].line > prologueAfterLine {
		markers = append([]marker{{line: -1, title: "Prologue"}}, markers...)
	}
	return markers
}
