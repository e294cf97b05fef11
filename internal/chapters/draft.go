// Package chapters partitions manuscript text into ordered chapter drafts.
package chapters

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxChapters is the chapter count fallback chunking aims for.
const DefaultMaxChapters = 12

// Draft is an editable chapter produced by an import.
type Draft struct {
	// ID is unique per import and only meant for list keying and selection.
	ID string
	// Title may be empty; callers display DisplayTitle instead.
	Title string
	// Content is the chapter body with paragraphs separated by a blank line.
	Content string
}

// NewDraft creates a draft with a fresh ID.
func NewDraft(title, content string) Draft {
	return Draft{
		ID:      uuid.NewString(),
		Title:   title,
		Content: content,
	}
}

// DisplayTitle returns the title, or "Chapter N" for the draft at index when
// the title is blank.
func (d Draft) DisplayTitle(index int) string {
	if t := strings.TrimSpace(d.Title); t != "" {
		return t
	}
	return fmt.Sprintf("Chapter %d", index+1)
}

// WordCount returns the number of whitespace separated words in the content.
func (d Draft) WordCount() int {
	return len(strings.Fields(d.Content))
}

// Preview returns up to n runes of the content on a single line.
func (d Draft) Preview(n int) string {
	flat := strings.Join(strings.Fields(d.Content), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}

// Hints carries caller supplied metadata for a split.
type Hints struct {
	Title       string
	Author      string
	MaxChapters int
}

func (h Hints) maxChapters() int {
	if h.MaxChapters <= 0 {
		return DefaultMaxChapters
	}
	return h.MaxChapters
}
