package chapters

import (
	"fmt"
	"strings"
)

const (
	minChunkSize = 3500
	maxChunkSize = 9000
	// boundaryWindow is how far back from a cut point a paragraph break is
	// searched for.
	boundaryWindow = 500
)

// Chunk splits text into "Chapter N" drafts of roughly equal size.
//
// The target size is total/maxChapters clamped to [3500, 9000] runes. Cut
// points are spaced evenly so the chunk count is ceil(total/size), and each
// one moves back to a paragraph break when there is one close enough.
func Chunk(text string, maxChapters int) []Draft {
	runes := []rune(strings.TrimSpace(text))
	total := len(runes)
	if total == 0 {
		return []Draft{NewDraft("Chapter 1", "")}
	}
	if maxChapters <= 0 {
		maxChapters = DefaultMaxChapters
	}

	size := clamp(total/maxChapters, minChunkSize, maxChunkSize)
	n := (total + size - 1) / size

	drafts := make([]Draft, 0, n)
	start := 0
	for k := 1; k <= n; k++ {
		end := total
		if k < n {
			end = alignToParagraph(runes, start, total*k/n)
		}
		if body := strings.TrimSpace(string(runes[start:end])); body != "" {
			drafts = append(drafts, NewDraft(fmt.Sprintf("Chapter %d", len(drafts)+1), body))
		}
		start = end
	}
	return drafts
}

// alignToParagraph moves cut back to the start of the last "\n\n" within
// boundaryWindow runes, or returns it unchanged.
func alignToParagraph(runes []rune, start, cut int) int {
	lo := cut - boundaryWindow
	for i := cut - 2; i > start && i >= lo; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			return i
		}
	}
	return cut
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
