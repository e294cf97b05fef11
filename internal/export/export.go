// Package export writes imported drafts to disk as one Markdown file per
// chapter plus a JSON manifest describing the import.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/metcalfc/folio/internal/chapters"
)

const (
	manifestFileName = "manifest.json"
	hashBytes        = 8192 // First 8KB for content hash
	maxSlugLen       = 48
)

var nonSlugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Chapter describes one exported draft.
type Chapter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	File  string `json:"file"`
	Words int    `json:"words"`
}

// Manifest describes an export directory.
type Manifest struct {
	Source     string    `json:"source"`
	Hash       string    `json:"hash"`
	Format     string    `json:"format"`
	Title      string    `json:"title,omitempty"`
	Author     string    `json:"author,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
	Chapters   []Chapter `json:"chapters"`
}

// ComputeHash generates a content hash for source identity
func ComputeHash(data []byte) string {
	if len(data) > hashBytes {
		data = data[:hashBytes]
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16]) // First 16 bytes = 32 hex chars
}

// Slug turns a title into a lowercase file name fragment.
func Slug(title string) string {
	s := nonSlugRegex.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		cut := s[:maxSlugLen]
		if s[maxSlugLen] != '-' {
			if i := strings.LastIndex(cut, "-"); i > 0 {
				cut = cut[:i]
			}
		}
		s = strings.TrimRight(cut, "-")
	}
	if s == "" {
		return "chapter"
	}
	return s
}

// FileName returns the chapter file name for the draft at index.
func FileName(index int, d chapters.Draft) string {
	return fmt.Sprintf("%02d-%s.md", index+1, Slug(d.DisplayTitle(index)))
}

// Write creates dir and writes every draft plus manifest.json into it. The
// manifest's Chapters and ExportedAt are filled in from drafts. It returns
// the manifest as written.
func Write(dir string, m Manifest, drafts []chapters.Draft) (Manifest, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return m, fmt.Errorf("creating %s: %w", dir, err)
	}

	m.Chapters = make([]Chapter, 0, len(drafts))
	for i, d := range drafts {
		name := FileName(i, d)
		body := "# " + d.DisplayTitle(i) + "\n\n" + strings.TrimSpace(d.Content) + "\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			return m, fmt.Errorf("writing %s: %w", name, err)
		}
		m.Chapters = append(m.Chapters, Chapter{
			ID:    d.ID,
			Title: d.DisplayTitle(i),
			File:  name,
			Words: d.WordCount(),
		})
	}

	if m.ExportedAt.IsZero() {
		m.ExportedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return m, err
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFileName), data, 0644); err != nil {
		return m, fmt.Errorf("writing manifest: %w", err)
	}
	return m, nil
}

// ReadManifest loads the manifest of an export directory.
func ReadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, manifestFileName))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}
