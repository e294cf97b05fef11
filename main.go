//go:build !gui

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/folio/config"
	"github.com/metcalfc/folio/internal/chapters"
	"github.com/metcalfc/folio/internal/editor"
	"github.com/metcalfc/folio/internal/importer"
	"github.com/metcalfc/folio/internal/logger"
)

func main() {
	os.Exit(run())
}

// run executes the command and returns the exit code, so deferred cleanup
// runs before the process exits.
func run() int {
	configPath := flag.String("config", config.DefaultPath, "Config file")
	outDir := flag.String("o", "", "Output directory (default: named after the input file)")
	list := flag.Bool("list", false, "Print the chapter list instead of exporting")
	title := flag.String("title", "", "Book title")
	author := flag.String("author", "", "Book author")
	maxChapters := flag.Int("max-chapters", 0, "Chapter count to aim for when the text has no headings")
	name := flag.String("name", "", "File name to assume for stdin, e.g. draft.md")
	logFile := flag.String("log", "", "Write logs to this file")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Folio - Manuscript Importer\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  folio [options] file...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats:\n")
		for _, f := range importer.SupportedFormats() {
			fmt.Fprintf(os.Stderr, "  %s\n", f)
		}
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  folio novel.docx                 Review chapters, S saves to ./novel\n")
		fmt.Fprintf(os.Stderr, "  folio -list novel.pdf            Print detected chapters\n")
		fmt.Fprintf(os.Stderr, "  folio -o out a.pdf b.md          Export both to out/a and out/b\n")
		fmt.Fprintf(os.Stderr, "  folio s3://drafts/novel.pdf      Import from S3\n")
		fmt.Fprintf(os.Stderr, "  cat draft.md | folio -name draft.md -list\n")
		fmt.Fprintf(os.Stderr, "\nEditor controls:\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓ j/k   Select chapter\n")
		fmt.Fprintf(os.Stderr, "  J/K       Move chapter down/up\n")
		fmt.Fprintf(os.Stderr, "  r         Rename\n")
		fmt.Fprintf(os.Stderr, "  ENTER     Preview\n")
		fmt.Fprintf(os.Stderr, "  m / d     Merge with next / delete\n")
		fmt.Fprintf(os.Stderr, "  s / q     Save / quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("folio %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newSession(cfg, chapters.Hints{Title: *title, Author: *author, MaxChapters: *maxChapters})

	interactive := flag.NArg() == 1 && !*list && isTerminal(os.Stdout)
	if interactive || *logFile != "" {
		closeLog := redirectLogs(*logFile)
		defer closeLog()
	}

	if interactive {
		return runEditor(a, a.importLocation(ctx, flag.Arg(0)), *outDir)
	}

	var results []outcome
	switch {
	case flag.NArg() > 0:
		results = a.importAll(ctx, flag.Args())

	default:
		if isTerminal(os.Stdin) {
			fmt.Fprintln(os.Stderr, "Error: No input provided. Provide a file or pipe text to stdin.")
			fmt.Fprintln(os.Stderr, "Try: folio -h")
			return 1
		}
		f, err := readStdin(os.Stdin, *name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			return 1
		}
		results = []outcome{a.importFile(f)}
	}

	failed := false
	for _, o := range results {
		if o.err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", o.location, importer.UserMessage(o.err))
			failed = true
			continue
		}

		if *list {
			fmt.Print(formatListing(o))
			continue
		}

		if prev := a.previousExport(o); prev != "" {
			logger.Info("%s", prev)
		}
		dir := exportDir(*outDir, o.location, len(results) > 1)
		m, err := a.save(dir, o, o.result.Drafts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", o.location, err)
			failed = true
			continue
		}
		fmt.Printf("%s: %d chapters written to %s\n", o.location, len(m.Chapters), dir)
	}

	if failed {
		return 1
	}
	return 0
}

// runEditor opens the chapter editor for a single import and returns the
// exit code.
func runEditor(a *session, o outcome, outDir string) int {
	if o.err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", o.location, importer.UserMessage(o.err))
		return 1
	}

	dir := exportDir(outDir, o.location, false)
	save := func(drafts []chapters.Draft) error {
		_, err := a.save(dir, o, drafts)
		return err
	}

	m := editor.New(o.location, o.result.Drafts, save)
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if fm, ok := final.(editor.Model); ok && fm.Saved() {
		fmt.Printf("%s: %d chapters written to %s\n", o.location, len(fm.Drafts()), dir)
	}
	return 0
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
