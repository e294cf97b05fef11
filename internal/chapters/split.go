package chapters

import "strings"

// Split partitions text into chapter drafts in source order.
//
// Lines that look like chapter headings and sit next to a blank line become
// chapter boundaries. With fewer than two such markers the text is chunked
// by size instead. The result is never empty: blank text yields a single
// empty "Chapter 1".
func Split(text string, hints Hints) []Draft {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return []Draft{NewDraft("Chapter 1", "")}
	}

	lines := strings.Split(text, "\n")
	markers := findMarkers(lines, hints)
	if len(markers) < 2 {
		return Chunk(text, hints.maxChapters())
	}
	return splitAtMarkers(lines, markers)
}

// splitAtMarkers builds one draft per marker from the lines up to the next
// marker. Empty chapters are dropped unless every chapter is empty.
func splitAtMarkers(lines []string, markers []marker) []Draft {
	all := make([]Draft, 0, len(markers))
	kept := make([]Draft, 0, len(markers))

	for k, m := range markers {
		end := len(lines)
		if k+1 < len(markers) {
			end = markers[k+1].line
		}
		body := strings.TrimSpace(strings.Join(lines[m.line+1:end], "\n"))

		d := NewDraft(m.title, body)
		all = append(all, d)
		if body != "" {
			kept = append(kept, d)
		}
	}

	if len(kept) == 0 {
		return all
	}
	return kept
}
