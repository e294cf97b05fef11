package importer

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextRun is a piece of text reported by a PDF page's text layer together
// with its position. Y grows upwards from the bottom of the page; W is the
// advance width of the run.
type TextRun struct {
	Text string
	X, Y float64
	W    float64
}

// PageBox is the vertical extent of a page.
type PageBox struct {
	Bottom, Top float64
}

// Height returns the page height, or 0 when the box is unknown.
func (b PageBox) Height() float64 {
	return b.Top - b.Bottom
}

// LineOptions tunes PDF line reconstruction.
type LineOptions struct {
	// HeaderRatio and FooterRatio are the fractions of the page height at
	// the top and bottom whose runs are dropped as running headers, page
	// numbers and footers.
	HeaderRatio float64
	FooterRatio float64
	// LineTolerance is the largest vertical distance between runs on the
	// same visual line.
	LineTolerance float64
	// WordGap is the horizontal gap above which a space is inserted
	// between two runs.
	WordGap float64
}

// DefaultLineOptions returns the standard reconstruction settings.
func DefaultLineOptions() LineOptions {
	return LineOptions{
		HeaderRatio:   0.10,
		FooterRatio:   0.10,
		LineTolerance: 2.5,
		WordGap:       6,
	}
}

// ReconstructLines orders a page's runs into text lines, top to bottom and
// left to right, without the header and footer zones. Blank lines are
// omitted.
func ReconstructLines(runs []TextRun, box PageBox, opts LineOptions) []string {
	body := dropMargins(runs, box, opts)
	if len(body) == 0 {
		return nil
	}

	sort.SliceStable(body, func(i, j int) bool {
		if body[i].Y != body[j].Y {
			return body[i].Y > body[j].Y
		}
		return body[i].X < body[j].X
	})

	var lines []string
	var cur []TextRun
	var anchor float64
	for _, r := range body {
		if len(cur) > 0 && math.Abs(anchor-r.Y) > opts.LineTolerance {
			lines = appendLine(lines, cur, opts.WordGap)
			cur = nil
		}
		if len(cur) == 0 {
			anchor = r.Y
		}
		cur = append(cur, r)
	}
	return appendLine(lines, cur, opts.WordGap)
}

// PageText returns the reconstructed lines of a page joined by newlines.
func PageText(runs []TextRun, box PageBox, opts LineOptions) string {
	return strings.Join(ReconstructLines(runs, box, opts), "\n")
}

func dropMargins(runs []TextRun, box PageBox, opts LineOptions) []TextRun {
	h := box.Height()
	top := box.Top - opts.HeaderRatio*h
	bottom := box.Bottom + opts.FooterRatio*h

	out := make([]TextRun, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if h > 0 && (r.Y > top || r.Y < bottom) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func appendLine(lines []string, runs []TextRun, wordGap float64) []string {
	if s := joinRuns(runs, wordGap); s != "" {
		return append(lines, s)
	}
	return lines
}

// joinRuns concatenates one line's runs left to right, inserting a space
// where the gap between runs is wider than wordGap.
func joinRuns(runs []TextRun, wordGap float64) string {
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var sb strings.Builder
	lastSpace := true
	for i, r := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := r.X - (prev.X + prev.W)
			if gap > wordGap && !lastSpace && !startsWithSpace(r.Text) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(r.Text)
		last, _ := utf8.DecodeLastRuneInString(r.Text)
		lastSpace = unicode.IsSpace(last)
	}
	return strings.TrimSpace(sb.String())
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
