package importer

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeText decodes plain text and Markdown. A byte order mark selects
// UTF-16; anything else is read as UTF-8.
func decodeText(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("%w: decode text: %w", ErrExtractionFailed, err)
	}
	return string(out), nil
}
