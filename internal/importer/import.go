// Package importer turns an uploaded manuscript into chapter drafts.
//
// Import detects the format from the file name, extracts plain text,
// reflows PDF text into paragraphs and splits the result into chapters.
// Each call is independent and keeps no state between imports.
package importer

import (
	"fmt"
	"time"
	"unicode"

	"github.com/metcalfc/folio/internal/chapters"
	"github.com/metcalfc/folio/internal/logger"
	"github.com/metcalfc/folio/internal/reflow"
)

// Options configures an import.
type Options struct {
	Hints chapters.Hints
	Lines LineOptions
}

// DefaultOptions returns the standard import settings.
func DefaultOptions() Options {
	return Options{
		Hints: chapters.Hints{MaxChapters: chapters.DefaultMaxChapters},
		Lines: DefaultLineOptions(),
	}
}

// Result is the outcome of an import. Drafts is never empty and belongs to
// the caller.
type Result struct {
	Name   string
	Format SourceFormat
	Text   string
	Drafts []chapters.Draft
}

// Extract converts a file into plain text according to its format.
func Extract(f File, opts Options) (string, SourceFormat, error) {
	format, err := DetectFormat(f.Name)
	if err != nil {
		return "", FormatUnknown, err
	}

	var text string
	switch format {
	case FormatText, FormatMarkdown:
		text, err = decodeText(f.Data)
	case FormatDocx:
		text, err = extractDocx(f.Data)
	case FormatPDF:
		text, err = extractPDF(f.Data, opts.Lines)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", format, err
	}
	return text, format, nil
}

// Import extracts f and splits it into chapter drafts.
func Import(f File, opts Options) (*Result, error) {
	start := time.Now()

	text, format, err := Extract(f, opts)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"file":  f.Name,
			"bytes": len(f.Data),
			"error": err.Error(),
		}).Warn("import failed")
		return nil, err
	}

	if format == FormatPDF {
		text = reflow.Reflow(text)
	}
	drafts := chapters.Split(text, opts.Hints)

	logger.WithFields(map[string]interface{}{
		"file":     f.Name,
		"format":   format.String(),
		"bytes":    len(f.Data),
		"chapters": len(drafts),
		"elapsed":  time.Since(start).String(),
	}).Debug("import finished")

	return &Result{
		Name:   f.Name,
		Format: format,
		Text:   text,
		Drafts: drafts,
	}, nil
}

// CheckReadable returns ErrNoReadableText when the drafts hold fewer than
// minChars non-space characters in total.
func CheckReadable(res *Result, minChars int) error {
	if minChars < 1 {
		minChars = 1
	}

	n := 0
	for _, d := range res.Drafts {
		for _, r := range d.Content {
			if !unicode.IsSpace(r) {
				n++
			}
		}
		if n >= minChars {
			return nil
		}
	}
	return fmt.Errorf("%w in %s", ErrNoReadableText, res.Name)
}
