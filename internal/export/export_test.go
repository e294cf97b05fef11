package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metcalfc/folio/internal/chapters"
)

func TestComputeHash(t *testing.T) {
	hash1 := ComputeHash([]byte("Hello, World!"))
	hash2 := ComputeHash([]byte("Different content"))
	hash3 := ComputeHash([]byte("Hello, World!"))

	// Same content = same hash
	if hash1 != hash3 {
		t.Errorf("Same content should produce same hash: %s != %s", hash1, hash3)
	}

	// Different content = different hash
	if hash1 == hash2 {
		t.Errorf("Different content should produce different hash")
	}

	if len(hash1) != 32 {
		t.Errorf("Hash should be 32 chars, got %d", len(hash1))
	}
}

func TestComputeHashUsesPrefix(t *testing.T) {
	prefix := strings.Repeat("a", hashBytes)
	if ComputeHash([]byte(prefix+"tail one")) != ComputeHash([]byte(prefix+"tail two")) {
		t.Error("bytes past the first 8KB should not change the hash")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Chapter 1", "chapter-1"},
		{"  The End!  ", "the-end"},
		{"Épilogue", "pilogue"},
		{"***", "chapter"},
		{"", "chapter"},
		{strings.Repeat("word ", 20), "word-word-word-word-word-word-word-word-word"},
	}

	for _, tt := range tests {
		if got := Slug(tt.title); got != tt.expected {
			t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.expected)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	drafts := []chapters.Draft{
		chapters.NewDraft("Chapter 1", "Hello world."),
		chapters.NewDraft("", "Goodbye.\n\nFor now."),
	}

	m, err := Write(dir, Manifest{Source: "book.txt", Format: "Text", Title: "Book"}, drafts)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	wantFiles := []string{"01-chapter-1.md", "02-chapter-2.md"}
	if len(m.Chapters) != len(wantFiles) {
		t.Fatalf("got %d chapters, want %d", len(m.Chapters), len(wantFiles))
	}
	for i, name := range wantFiles {
		if m.Chapters[i].File != name {
			t.Errorf("chapter %d file = %q, want %q", i, m.Chapters[i].File, name)
		}
		if m.Chapters[i].ID != drafts[i].ID {
			t.Errorf("chapter %d id not carried over", i)
		}
	}

	body, err := os.ReadFile(filepath.Join(dir, "02-chapter-2.md"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(body) != "# Chapter 2\n\nGoodbye.\n\nFor now.\n" {
		t.Errorf("chapter body = %q", body)
	}

	loaded, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if loaded.Source != "book.txt" || loaded.Title != "Book" || len(loaded.Chapters) != 2 {
		t.Errorf("manifest = %+v", loaded)
	}
	if loaded.Chapters[1].Words != 3 {
		t.Errorf("words = %d, want 3", loaded.Chapters[1].Words)
	}
	if loaded.ExportedAt.IsZero() {
		t.Error("ExportedAt not set")
	}
}
