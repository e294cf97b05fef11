// Package reflow turns hard-wrapped text, as extracted from PDFs, into
// paragraphs separated by a single blank line.
//
// The heuristics are approximate. Headings, dialogue, list items and stage
// directions keep their own lines; every other line is merged into the
// previous one or starts a new paragraph depending on how the previous line
// ends and how the next one starts.
package reflow

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	blankRunRegex = regexp.MustCompile(`\n{3,}`)
	spaceRunRegex = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
)

// PageBreak separates pages in extracted text. A paragraph cut by a page
// break is rejoined when the wrap rules say the next page continues it.
const PageBreak = "\f"

// Reflow collapses layout line breaks in raw into paragraphs.
func Reflow(raw string) string {
	var paragraphs []string
	for _, page := range strings.Split(raw, PageBreak) {
		next := reflowPage(page)
		if len(next) == 0 {
			continue
		}
		if n := len(paragraphs); n > 0 {
			if joined, ok := joinAcrossPages(paragraphs[n-1], next[0]); ok {
				paragraphs[n-1] = joined
				next = next[1:]
			}
		}
		paragraphs = append(paragraphs, next...)
	}
	return strings.Join(paragraphs, "\n\n")
}

func reflowPage(raw string) []string {
	text := normalize(raw)
	if text == "" {
		return nil
	}

	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		paragraphs = append(paragraphs, reflowBlock(strings.Split(block, "\n"))...)
	}
	return paragraphs
}

// joinAcrossPages merges the last paragraph of a page with the first of the
// next one when the second continues the first.
func joinAcrossPages(prev, next string) (string, bool) {
	if standsAlone(prev) || standsAlone(next) || IsDialogueStart(next) {
		return "", false
	}
	if endsWithHyphenatedWord(prev) && startsWithLetter(next) {
		return strings.TrimSuffix(prev, "-") + next, true
	}
	if continues(prev, next) {
		return prev + " " + next, true
	}
	return "", false
}

func standsAlone(paragraph string) bool {
	return IsHeading(paragraph) || LooksLikeList(paragraph)
}

// normalize unifies line endings, squeezes horizontal whitespace and
// collapses runs of blank lines into one.
func normalize(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRegex.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")

	return strings.TrimSpace(blankRunRegex.ReplaceAllString(s, "\n\n"))
}

// paragraphs accumulates the paragraphs of one blank-line delimited block.
type paragraphs struct {
	out  []string
	cur  string
	last string // last source line appended to cur
}

func reflowBlock(lines []string) []string {
	var p paragraphs
	for _, line := range lines {
		if line != "" {
			p.add(line)
		}
	}
	p.flush()
	return p.out
}

func (p *paragraphs) add(line string) {
	switch {
	case p.cur != "" && endsWithHyphenatedWord(p.last) && startsWithLetter(line) && !IsHeading(line):
		p.cur = strings.TrimSuffix(p.cur, "-") + line
		p.last = line
	case IsHeading(line), IsStageDirection(line):
		p.flush()
		p.out = append(p.out, line)
	case IsDialogueStart(line), LooksLikeList(line):
		p.flush()
		p.start(line)
	case p.cur == "":
		p.start(line)
	case continues(p.last, line):
		p.cur += " " + line
		p.last = line
	default:
		p.flush()
		p.start(line)
	}
}

func (p *paragraphs) start(line string) {
	p.cur = line
	p.last = line
}

func (p *paragraphs) flush() {
	if p.cur != "" {
		p.out = append(p.out, p.cur)
	}
	p.cur = ""
	p.last = ""
}

// continues decides whether next is a wrapped continuation of prev.
func continues(prev, next string) bool {
	switch {
	case EndsSentence(prev):
		return StartsLowercase(next)
	case EndsWithColon(prev):
		return false
	case EndsWithContinuation(prev):
		return true
	default:
		return StartsLowercase(next)
	}
}

func startsWithLetter(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsLetter(r)
}
