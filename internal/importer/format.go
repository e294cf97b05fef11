package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceFormat identifies how a file's bytes are turned into text.
type SourceFormat int

const (
	FormatUnknown SourceFormat = iota
	FormatText
	FormatMarkdown
	FormatDocx
	FormatPDF
)

var formats = []struct {
	format SourceFormat
	name   string
	ext    string
}{
	{FormatText, "Text", ".txt"},
	{FormatMarkdown, "Markdown", ".md"},
	{FormatDocx, "DOCX", ".docx"},
	{FormatPDF, "PDF", ".pdf"},
}

func (f SourceFormat) String() string {
	for _, e := range formats {
		if e.format == f {
			return e.name
		}
	}
	return "Unknown"
}

// Extension returns the file extension of the format, including the dot.
func (f SourceFormat) Extension() string {
	for _, e := range formats {
		if e.format == f {
			return e.ext
		}
	}
	return ""
}

// DetectFormat resolves a file name to its format by extension.
func DetectFormat(name string) (SourceFormat, error) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range formats {
		if ext == e.ext {
			return e.format, nil
		}
	}
	if ext == "" {
		return FormatUnknown, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, name)
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// SupportedFormats returns format names with their extensions.
func SupportedFormats() []string {
	out := make([]string, 0, len(formats))
	for _, e := range formats {
		out = append(out, e.name+" ("+e.ext+")")
	}
	return out
}
