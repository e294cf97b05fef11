package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/metcalfc/folio/internal/logger"
)

const historyFileName = "exports.json"

// Record remembers where a source was last exported.
type Record struct {
	Hash       string    `json:"hash"`
	Source     string    `json:"source"`
	Dir        string    `json:"dir"`
	Chapters   int       `json:"chapters"`
	ExportedAt time.Time `json:"exported_at"`
}

// History is the list of past exports, one record per source content hash.
type History struct {
	file    string
	mu      sync.Mutex
	records map[string]Record
}

// HistoryDir is $XDG_STATE_HOME/folio, or ~/.local/state/folio.
func HistoryDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "folio"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating state dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "folio"), nil
}

// OpenHistory loads the history kept in dir, creating dir if needed. A
// damaged history file is logged and replaced on the next write.
func OpenHistory(dir string) (*History, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	h := &History{
		file:    filepath.Join(dir, historyFileName),
		records: make(map[string]Record),
	}

	data, err := os.ReadFile(h.file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return h, nil
	case err != nil:
		return nil, fmt.Errorf("reading export history: %w", err)
	}

	var list []Record
	if err := json.Unmarshal(data, &list); err != nil {
		logger.Warn("ignoring damaged export history %s: %v", h.file, err)
		return h, nil
	}
	for _, r := range list {
		if r.Hash != "" {
			h.records[r.Hash] = r
		}
	}
	return h, nil
}

// Lookup returns the recorded export for hash.
func (h *History) Lookup(hash string) (Record, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.records[hash]
	return r, ok
}

// Remember records r, replacing any earlier export of the same content.
func (h *History) Remember(r Record) error {
	if r.Hash == "" {
		return errors.New("export record without hash")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.records[r.Hash] = r
	return h.write()
}

// Forget drops the record for hash.
func (h *History) Forget(hash string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.records[hash]; !ok {
		return nil
	}
	delete(h.records, hash)
	return h.write()
}

// write stores the records newest first, replacing the file atomically.
func (h *History) write() error {
	list := make([]Record, 0, len(h.records))
	for _, r := range h.records {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ExportedAt.After(list[j].ExportedAt)
	})

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}

	tmp := h.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing export history: %w", err)
	}
	return os.Rename(tmp, h.file)
}
