package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/metcalfc/folio/config"
	"github.com/metcalfc/folio/internal/chapters"
	"github.com/metcalfc/folio/internal/export"
	"github.com/metcalfc/folio/internal/importer"
	"github.com/metcalfc/folio/internal/logger"
	"github.com/metcalfc/folio/internal/source"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// stdinName is the file name assumed for piped input without -name.
const stdinName = "stdin.txt"

// outcome is one imported file.
type outcome struct {
	location string
	hash     string
	result   *importer.Result
	err      error
}

// session is the state one folio run shares across its imports.
type session struct {
	cfg     config.Config
	hints   chapters.Hints
	opener  *source.Opener
	history *export.History
}

func newSession(cfg config.Config, hints chapters.Hints) *session {
	if hints.MaxChapters <= 0 {
		hints.MaxChapters = cfg.Import.MaxChapters
	}

	a := &session{
		cfg:    cfg,
		hints:  hints,
		opener: source.New(cfg),
	}
	if h, err := openHistory(); err == nil {
		a.history = h
	} else {
		logger.Warn("export history unavailable: %v", err)
	}
	return a
}

func openHistory() (*export.History, error) {
	dir, err := export.HistoryDir()
	if err != nil {
		return nil, err
	}
	return export.OpenHistory(dir)
}

// importOptions maps configuration and hints onto importer settings.
func importOptions(cfg config.Config, hints chapters.Hints) importer.Options {
	opts := importer.DefaultOptions()
	opts.Hints = hints
	opts.Lines = importer.LineOptions{
		HeaderRatio:   cfg.PDF.HeaderRatio,
		FooterRatio:   cfg.PDF.FooterRatio,
		LineTolerance: cfg.PDF.LineTolerance,
		WordGap:       cfg.PDF.WordGap,
	}
	return opts
}

// importFile runs the pipeline on f and rejects results without text.
func (a *session) importFile(f importer.File) outcome {
	o := outcome{location: f.Name, hash: export.ComputeHash(f.Data)}

	res, err := importer.Import(f, importOptions(a.cfg, a.hints))
	if err == nil {
		err = importer.CheckReadable(res, a.cfg.Import.MinReadableChars)
	}
	o.result, o.err = res, err
	return o
}

func (a *session) importLocation(ctx context.Context, location string) outcome {
	f, err := a.opener.Open(ctx, location)
	if err != nil {
		return outcome{location: location, err: err}
	}
	o := a.importFile(f)
	o.location = location
	return o
}

// importAll imports every location with at most concurrency imports in
// flight. Results keep the order of locations.
func (a *session) importAll(ctx context.Context, locations []string) []outcome {
	results := make([]outcome, len(locations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.cfg.Batch.Concurrency, 1))
	for i, loc := range locations {
		g.Go(func() error {
			results[i] = a.importLocation(ctx, loc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// readStdin reads piped input under the given file name.
func readStdin(r io.Reader, name string) (importer.File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return importer.File{}, err
	}
	if name == "" {
		name = stdinName
	}
	return importer.File{Name: name, Data: data}, nil
}

// exportDir picks the output directory for a source. With several inputs
// each gets its own subdirectory named after the file.
func exportDir(base, location string, multiple bool) string {
	stem := strings.TrimSuffix(filepath.Base(location), filepath.Ext(location))
	if base == "" {
		return stem
	}
	if multiple {
		return filepath.Join(base, stem)
	}
	return base
}

// save writes drafts for o to dir and records the export.
func (a *session) save(dir string, o outcome, drafts []chapters.Draft) (export.Manifest, error) {
	m, err := export.Write(dir, export.Manifest{
		Source: filepath.Base(o.location),
		Hash:   o.hash,
		Format: o.result.Format.String(),
		Title:  a.hints.Title,
		Author: a.hints.Author,
	}, drafts)
	if err != nil {
		return m, err
	}

	if a.history != nil {
		if err := a.history.Remember(export.Record{
			Hash:       o.hash,
			Source:     m.Source,
			Dir:        dir,
			Chapters:   len(m.Chapters),
			ExportedAt: m.ExportedAt,
		}); err != nil {
			logger.Warn("recording export: %v", err)
		}
	}
	return m, nil
}

// previousExport describes an earlier export of the same content. A record
// whose directory no longer holds that export is forgotten.
func (a *session) previousExport(o outcome) string {
	if a.history == nil {
		return ""
	}
	r, ok := a.history.Lookup(o.hash)
	if !ok {
		return ""
	}

	if m, err := export.ReadManifest(r.Dir); err != nil || m.Hash != o.hash {
		if err := a.history.Forget(o.hash); err != nil {
			logger.Warn("forgetting stale export of %s: %v", r.Source, err)
		}
		return ""
	}
	return fmt.Sprintf("%s was exported to %s on %s", r.Source, r.Dir, r.ExportedAt.Local().Format(time.DateTime))
}

// formatListing renders the chapter list of an import.
func formatListing(o outcome) string {
	var sb strings.Builder
	res := o.result
	fmt.Fprintf(&sb, "%s (%s): %d chapters\n", o.location, res.Format, len(res.Drafts))
	for i, d := range res.Drafts {
		fmt.Fprintf(&sb, "  %02d %-40s %6d words\n", i+1, d.DisplayTitle(i), d.WordCount())
	}
	return sb.String()
}

// redirectLogs sends log output to path, or discards it when path is empty
// so nothing draws over the terminal UI. The returned func closes the log
// file and points logging back at stderr.
func redirectLogs(path string) func() {
	restore := func() { logger.SetOutput(os.Stderr) }
	if path == "" {
		logger.SetOutput(io.Discard)
		return restore
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: can't open log file: %v\n", err)
		logger.SetOutput(io.Discard)
		return restore
	}
	logger.SetOutput(f)
	return func() {
		restore()
		f.Close()
	}
}
