package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

const twoChapters = "Chapter 1\n\nHello world.\n\nChapter 2\n\nGoodbye."

func assertDrafts(t *testing.T, res *Result, titles, contents []string) {
	t.Helper()
	if len(res.Drafts) != len(titles) {
		t.Fatalf("got %d drafts, want %d (text %q)", len(res.Drafts), len(titles), res.Text)
	}
	for i, d := range res.Drafts {
		if d.Title != titles[i] {
			t.Errorf("draft %d title = %q, want %q", i, d.Title, titles[i])
		}
		if d.Content != contents[i] {
			t.Errorf("draft %d content = %q, want %q", i, d.Content, contents[i])
		}
	}
}

func TestImportText(t *testing.T) {
	res, err := Import(File{Name: "book.txt", Data: []byte(twoChapters)}, DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Format != FormatText {
		t.Errorf("Format = %v, want Text", res.Format)
	}
	assertDrafts(t, res,
		[]string{"Chapter 1", "Chapter 2"},
		[]string{"Hello world.", "Goodbye."})
}

func TestImportMarkdownIsVerbatim(t *testing.T) {
	input := "# Notes\nline one\nline two"
	text, format, err := Extract(File{Name: "notes.md", Data: []byte(input)}, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if format != FormatMarkdown {
		t.Errorf("format = %v, want Markdown", format)
	}
	if text != input {
		t.Errorf("got %q, want %q", text, input)
	}
}

func TestDecodeTextBOM(t *testing.T) {
	t.Run("utf-8 bom", func(t *testing.T) {
		got, err := decodeText(append([]byte{0xEF, 0xBB, 0xBF}, "Hello"...))
		if err != nil {
			t.Fatalf("decodeText: %v", err)
		}
		if got != "Hello" {
			t.Errorf("got %q, want %q", got, "Hello")
		}
	})

	t.Run("utf-16 bom", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		data, err := enc.Bytes([]byte("Grüße"))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := decodeText(data)
		if err != nil {
			t.Fatalf("decodeText: %v", err)
		}
		if got != "Grüße" {
			t.Errorf("got %q, want %q", got, "Grüße")
		}
	})
}

func TestImportUnsupportedBeforeDecode(t *testing.T) {
	_, err := Import(File{Name: "notes.xyz", Data: []byte("%PDF-1.4 not really")}, DefaultOptions())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if msg := UserMessage(err); !strings.Contains(msg, "Unsupported file type") {
		t.Errorf("UserMessage = %q", msg)
	}
}

func TestImportDocx(t *testing.T) {
	data := buildDocx(t, "Chapter 1", "Hello world.", "Chapter 2", "Goodbye.")

	res, err := Import(File{Name: "draft.docx", Data: data}, DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	assertDrafts(t, res,
		[]string{"Chapter 1", "Chapter 2"},
		[]string{"Hello world.", "Goodbye."})
}

func TestImportCorruptDocx(t *testing.T) {
	_, err := Import(File{Name: "broken.docx", Data: []byte("not a zip archive")}, DefaultOptions())
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestImportPDF(t *testing.T) {
	data := buildPDF(t,
		[]pdfLine{
			{72, 760, "Running Header"},
			{72, 700, "Chapter 1"},
			{72, 660, "The story begins"},
			{72, 640, "in"},
			{100, 640, "earnest."},
			{300, 40, "1"},
		},
		[]pdfLine{
			{72, 760, "Running Header"},
			{72, 700, "Chapter 2"},
			{72, 660, "It ends."},
			{300, 40, "2"},
		},
	)

	text, _, err := Extract(File{Name: "book.pdf", Data: data}, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "Chapter 1\nThe story begins\nin earnest.\fChapter 2\nIt ends."
	if text != want {
		t.Errorf("Extract = %q, want %q", text, want)
	}

	res, err := Import(File{Name: "book.pdf", Data: data}, DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	assertDrafts(t, res,
		[]string{"Chapter 1", "Chapter 2"},
		[]string{"The story begins in earnest.", "It ends."})
}

func TestImportPDFSentenceAcrossPages(t *testing.T) {
	data := buildPDF(t,
		[]pdfLine{
			{72, 700, "Chapter 1"},
			{72, 660, "The night went on"},
			{72, 640, "and on"},
		},
		[]pdfLine{
			{72, 700, "until morning came."},
			{72, 660, "Chapter 2"},
			{72, 640, "It ends."},
		},
	)

	res, err := Import(File{Name: "book.pdf", Data: data}, DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	assertDrafts(t, res,
		[]string{"Chapter 1", "Chapter 2"},
		[]string{"The night went on and on until morning came.", "It ends."})
}

func TestImportPDFWithoutText(t *testing.T) {
	data := buildPDF(t, []pdfLine{})

	res, err := Import(File{Name: "scan.pdf", Data: data}, DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Drafts) != 1 || res.Drafts[0].Content != "" {
		t.Fatalf("expected a single empty draft, got %+v", res.Drafts)
	}

	err = CheckReadable(res, 20)
	if !errors.Is(err, ErrNoReadableText) {
		t.Fatalf("CheckReadable = %v, want ErrNoReadableText", err)
	}
	if msg := UserMessage(err); !strings.Contains(msg, "readable text") {
		t.Errorf("UserMessage = %q", msg)
	}
}

func TestImportMalformedPDF(t *testing.T) {
	_, err := Import(File{Name: "broken.pdf", Data: []byte("%PDF-1.4\nthis is not a pdf")}, DefaultOptions())
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestCheckReadable(t *testing.T) {
	res, err := Import(File{Name: "book.txt", Data: []byte(twoChapters)}, DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if err := CheckReadable(res, 10); err != nil {
		t.Errorf("CheckReadable(10) = %v", err)
	}
	if err := CheckReadable(res, 1000); !errors.Is(err, ErrNoReadableText) {
		t.Errorf("CheckReadable(1000) = %v, want ErrNoReadableText", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.txt")
	if err := os.WriteFile(path, []byte("Once."), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Name != "story.txt" || string(f.Data) != "Once." {
		t.Errorf("ReadFile = %+v", f)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUserMessageDefault(t *testing.T) {
	if UserMessage(nil) != "" {
		t.Error("UserMessage(nil) should be empty")
	}
	if msg := UserMessage(errors.New("disk full")); !strings.Contains(msg, "disk full") {
		t.Errorf("UserMessage = %q", msg)
	}
}
