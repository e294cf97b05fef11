//go:build gui

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/metcalfc/folio/config"
	"github.com/metcalfc/folio/internal/chapters"
	"github.com/metcalfc/folio/internal/importer"
	"github.com/metcalfc/folio/internal/logger"
)

// guiModel is the state behind the desktop editor.
type guiModel struct {
	drafts   []chapters.Draft
	selected int
	loading  bool // set while entries are filled programmatically
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "Config file")
	outDir := flag.String("o", "", "Output directory (default: named after the input file)")
	title := flag.String("title", "", "Book title")
	author := flag.String("author", "", "Book author")
	maxChapters := flag.Int("max-chapters", 0, "Chapter count to aim for when the text has no headings")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Folio - Manuscript Importer (desktop)\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  folio-gui [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  folio-gui novel.docx             Review chapters, Save writes ./novel\n")
		fmt.Fprintf(os.Stderr, "  folio-gui -o book novel.pdf      Save into ./book\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("folio-gui %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: Provide exactly one file to import.")
		fmt.Fprintln(os.Stderr, "Try: folio-gui -h")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := newSession(cfg, chapters.Hints{Title: *title, Author: *author, MaxChapters: *maxChapters})
	o := a.importLocation(context.Background(), flag.Arg(0))
	if o.err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", o.location, importer.UserMessage(o.err))
		os.Exit(1)
	}

	dir := exportDir(*outDir, o.location, false)
	m := &guiModel{drafts: o.result.Drafts}

	fa := fyneapp.New()
	w := fa.NewWindow("folio - " + o.location)

	statusLabel := widget.NewLabel("")
	titleEntry := widget.NewEntry()
	titleEntry.SetPlaceHolder("Chapter title")
	contentEntry := widget.NewMultiLineEntry()
	contentEntry.Wrapping = fyne.TextWrapWord

	var chapterList *widget.List

	updateStatus := func(msg string) {
		statusLabel.SetText(fmt.Sprintf("%d chapters | %s", len(m.drafts), msg))
	}

	showSelected := func() {
		if m.selected >= len(m.drafts) {
			m.selected = len(m.drafts) - 1
		}
		d := m.drafts[m.selected]
		m.loading = true
		titleEntry.SetText(d.Title)
		contentEntry.SetText(d.Content)
		m.loading = false
	}

	reload := func(msg string) {
		chapterList.Refresh()
		chapterList.Select(m.selected)
		showSelected()
		updateStatus(msg)
	}

	chapterList = widget.NewList(
		func() int { return len(m.drafts) },
		func() fyne.CanvasObject {
			return container.NewVBox(
				widget.NewLabel("Title"),
				widget.NewLabel("Preview"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			d := m.drafts[id]
			vbox := obj.(*fyne.Container)
			titleLabel := vbox.Objects[0].(*widget.Label)
			previewLabel := vbox.Objects[1].(*widget.Label)

			titleLabel.SetText(fmt.Sprintf("%02d %s (%d words)", id+1, d.DisplayTitle(id), d.WordCount()))
			titleLabel.TextStyle.Bold = true
			previewLabel.SetText(d.Preview(50))
		},
	)
	chapterList.OnSelected = func(id widget.ListItemID) {
		m.selected = id
		showSelected()
	}

	titleEntry.OnChanged = func(s string) {
		if m.loading {
			return
		}
		m.drafts = chapters.Rename(m.drafts, m.selected, s)
		chapterList.RefreshItem(m.selected)
	}
	contentEntry.OnChanged = func(s string) {
		if m.loading {
			return
		}
		m.drafts[m.selected].Content = s
		chapterList.RefreshItem(m.selected)
	}

	upButton := widget.NewButton("Move up", func() {
		if m.selected > 0 {
			m.drafts = chapters.Swap(m.drafts, m.selected, m.selected-1)
			m.selected--
			reload("Moved")
		}
	})
	downButton := widget.NewButton("Move down", func() {
		if m.selected < len(m.drafts)-1 {
			m.drafts = chapters.Swap(m.drafts, m.selected, m.selected+1)
			m.selected++
			reload("Moved")
		}
	})
	mergeButton := widget.NewButton("Merge with next", func() {
		if m.selected < len(m.drafts)-1 {
			m.drafts = chapters.MergeNext(m.drafts, m.selected)
			reload("Merged")
		}
	})
	deleteButton := widget.NewButton("Delete", func() {
		if len(m.drafts) <= 1 {
			updateStatus("Can't delete the only chapter")
			return
		}
		dialog.ShowConfirm("Delete chapter",
			fmt.Sprintf("Delete %q?", m.drafts[m.selected].DisplayTitle(m.selected)),
			func(ok bool) {
				if ok {
					m.drafts = chapters.Remove(m.drafts, m.selected)
					reload("Deleted")
				}
			}, w)
	})
	saveButton := widget.NewButton("Save", func() {
		manifest, err := a.save(dir, o, m.drafts)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		updateStatus(fmt.Sprintf("Saved to %s", dir))
		dialog.ShowInformation("Saved", fmt.Sprintf("%d chapters written to %s", len(manifest.Chapters), dir), w)
	})

	if prev := a.previousExport(o); prev != "" {
		updateStatus(prev)
	} else {
		updateStatus(o.result.Format.String())
	}

	buttons := container.NewHBox(upButton, downButton, mergeButton, deleteButton, saveButton)
	editorPane := container.NewBorder(titleEntry, nil, nil, nil, contentEntry)
	split := container.NewHSplit(chapterList, editorPane)
	split.Offset = 0.33

	w.SetContent(container.NewBorder(buttons, statusLabel, nil, nil, split))
	w.Resize(fyne.NewSize(1000, 700))

	chapterList.Select(0)
	w.ShowAndRun()
}
