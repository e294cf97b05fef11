package importer

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// extractDocx returns the raw text of a DOCX document, one paragraph per
// blank-line separated block. Formatting, images and styles are dropped.
func extractDocx(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %w", ErrExtractionFailed, err)
	}
	return paragraphsFromLines(text), nil
}

// paragraphsFromLines treats every non-blank line as a paragraph.
func paragraphsFromLines(text string) string {
	var paras []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paras = append(paras, line)
		}
	}
	return strings.Join(paras, "\n\n")
}
