package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/metcalfc/folio/internal/logger"
	"github.com/metcalfc/folio/internal/reflow"
)

// maxParentDepth bounds the walk up the page tree for inherited attributes.
const maxParentDepth = 32

// extractPDF reads the text layer of every page and joins the pages with
// reflow.PageBreak. Image-only pages contribute nothing; there is no OCR.
func extractPDF(data []byte, opts LineOptions) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf: %v", ErrExtractionFailed, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %w", ErrExtractionFailed, err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		runs, err := pageRuns(page)
		if err != nil {
			logger.Warn("skipping pdf page %d: %v", i, err)
			continue
		}

		if t := PageText(runs, pageBox(page), opts); t != "" {
			pages = append(pages, t)
		}
	}

	return norm.NFC.String(strings.Join(pages, reflow.PageBreak)), nil
}

// pageRuns collects the positioned text of a page. The PDF library panics
// on malformed content streams, so that is turned into an error here.
func pageRuns(page pdf.Page) (runs []TextRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unreadable content: %v", r)
		}
	}()

	content := page.Content()
	runs = make([]TextRun, 0, len(content.Text))
	for _, t := range content.Text {
		runs = append(runs, TextRun{Text: t.S, X: t.X, Y: t.Y, W: t.W})
	}
	return runs, nil
}

// pageBox reads the page's MediaBox, inherited from the page tree when
// the page itself has none.
func pageBox(page pdf.Page) PageBox {
	v := page.V
	for depth := 0; depth < maxParentDepth && !v.IsNull(); depth++ {
		mb := v.Key("MediaBox")
		if mb.Kind() == pdf.Array && mb.Len() == 4 {
			bottom, top := mb.Index(1).Float64(), mb.Index(3).Float64()
			if top < bottom {
				bottom, top = top, bottom
			}
			return PageBox{Bottom: bottom, Top: top}
		}
		v = v.Key("Parent")
	}
	return PageBox{}
}
