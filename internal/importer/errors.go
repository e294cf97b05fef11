package importer

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions outside the
	// recognised set. No decoding is attempted.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed wraps decode failures of a recognised format,
	// such as a corrupt DOCX or a malformed PDF.
	ErrExtractionFailed = errors.New("import failed")

	// ErrNoReadableText is returned by CheckReadable when an import
	// produced no usable text, typically a scanned PDF.
	ErrNoReadableText = errors.New("no readable text found")
)

// UserMessage renders err as an inline message for the person importing.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return "Unsupported file type. Choose a .txt, .md, .docx or .pdf file."
	case errors.Is(err, ErrNoReadableText):
		return "Couldn't find readable text in this file. If it is a scanned PDF, export it as .docx or .txt and try again."
	case errors.Is(err, ErrExtractionFailed):
		return "Import failed. The file may be damaged; re-save it or try another format."
	default:
		return "Import failed: " + err.Error()
	}
}
