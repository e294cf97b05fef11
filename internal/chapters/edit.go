package chapters

import (
	"slices"
	"strings"
)

// The list edits below return a new slice and leave their input untouched.
// Out-of-range indices return an unchanged copy.

// Swap exchanges the drafts at i and j.
func Swap(drafts []Draft, i, j int) []Draft {
	out := slices.Clone(drafts)
	if !inRange(out, i) || !inRange(out, j) {
		return out
	}
	out[i], out[j] = out[j], out[i]
	return out
}

// MergeNext appends the content of the draft after i to draft i and removes
// it. Draft i keeps its ID and title.
func MergeNext(drafts []Draft, i int) []Draft {
	out := slices.Clone(drafts)
	if !inRange(out, i) || i+1 >= len(out) {
		return out
	}

	var parts []string
	for _, c := range []string{out[i].Content, out[i+1].Content} {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	out[i].Content = strings.Join(parts, "\n\n")
	return slices.Delete(out, i+1, i+2)
}

// Remove deletes draft i. A list never shrinks below one draft.
func Remove(drafts []Draft, i int) []Draft {
	out := slices.Clone(drafts)
	if !inRange(out, i) || len(out) <= 1 {
		return out
	}
	return slices.Delete(out, i, i+1)
}

// Rename sets the title of draft i.
func Rename(drafts []Draft, i int, title string) []Draft {
	out := slices.Clone(drafts)
	if inRange(out, i) {
		out[i].Title = strings.TrimSpace(title)
	}
	return out
}

func inRange(drafts []Draft, i int) bool {
	return i >= 0 && i < len(drafts)
}
