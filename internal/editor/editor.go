// Package editor is a Bubble Tea model for reviewing imported chapter
// drafts before they are saved: rename, reorder, merge, delete and preview.
package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/folio/internal/chapters"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF00"))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

type mode int

const (
	modeList mode = iota
	modeRename
	modePreview
)

// SaveFunc persists the edited drafts.
type SaveFunc func([]chapters.Draft) error

type savedMsg struct{ err error }

// Model is the chapter editor.
type Model struct {
	name     string
	drafts   []chapters.Draft
	cursor   int
	mode     mode
	input    textinput.Model
	view     viewport.Model
	save     SaveFunc
	status   string
	failed   bool
	saved    bool
	quitting bool
	width    int
	height   int
}

// New returns an editor over a copy of drafts. save may be nil, in which
// case the save key is disabled.
func New(name string, drafts []chapters.Draft, save SaveFunc) Model {
	if len(drafts) == 0 {
		drafts = []chapters.Draft{chapters.NewDraft("", "")}
	}

	ti := textinput.New()
	ti.Prompt = "Title: "
	ti.CharLimit = 120

	return Model{
		name:   name,
		drafts: slices.Clone(drafts),
		input:  ti,
		view:   viewport.New(80, 20),
		save:   save,
		width:  80,
		height: 24,
	}
}

// Drafts returns the drafts in their current order.
func (m Model) Drafts() []chapters.Draft {
	return slices.Clone(m.drafts)
}

// Cursor returns the index of the selected draft.
func (m Model) Cursor() int {
	return m.cursor
}

// Saved reports whether the last save succeeded and nothing changed since.
func (m Model) Saved() bool {
	return m.saved
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-3, 1)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "Save failed: " + msg.err.Error()
			m.failed = true
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %d chapters", len(m.drafts))
		m.failed = false
		m.saved = true
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeRename:
			return m.updateRename(msg)
		case modePreview:
			return m.updatePreview(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.drafts)-1 {
			m.cursor++
		}

	case "K":
		if m.cursor > 0 {
			m.swap(m.cursor, m.cursor-1)
			m.cursor--
		}

	case "J":
		if m.cursor < len(m.drafts)-1 {
			m.swap(m.cursor, m.cursor+1)
			m.cursor++
		}

	case "m", "M":
		m.mergeNext()

	case "d", "D":
		m.deleteCurrent()

	case "r", "R":
		m.mode = modeRename
		m.input.SetValue(m.drafts[m.cursor].Title)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "enter":
		m.mode = modePreview
		d := m.drafts[m.cursor]
		m.view.SetContent(d.DisplayTitle(m.cursor) + "\n\n" + d.Content)
		m.view.GotoTop()

	case "s", "S":
		if m.save == nil {
			return m, nil
		}
		m.status = "Saving..."
		return m, saveCmd(m.save, m.Drafts())

	case "q", "Q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.drafts = chapters.Rename(m.drafts, m.cursor, m.input.Value())
		m.changed("Renamed")
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.mode = modeList
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *Model) swap(i, j int) {
	m.drafts = chapters.Swap(m.drafts, i, j)
	m.changed("Moved")
}

func (m *Model) mergeNext() {
	if m.cursor >= len(m.drafts)-1 {
		return
	}
	m.drafts = chapters.MergeNext(m.drafts, m.cursor)
	m.changed("Merged")
}

// deleteCurrent removes the selected draft. The last draft is never removed.
func (m *Model) deleteCurrent() {
	if len(m.drafts) <= 1 {
		m.status = "Can't delete the only chapter"
		return
	}
	m.drafts = chapters.Remove(m.drafts, m.cursor)
	if m.cursor >= len(m.drafts) {
		m.cursor = len(m.drafts) - 1
	}
	m.changed("Deleted")
}

func (m *Model) changed(status string) {
	m.status = status
	m.failed = false
	m.saved = false
}

func saveCmd(save SaveFunc, drafts []chapters.Draft) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: save(drafts)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.mode == modePreview {
		controls := controlsStyle.Render("↑/↓: scroll  esc: back")
		return headerStyle.Render(m.name) + "\n" + m.view.View() + "\n" + controls
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s: %d chapters", m.name, len(m.drafts))))
	sb.WriteString("\n\n")

	// Reserve lines for header, status and controls
	rows := max(m.height-6, 1)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.drafts))

	for i := start; i < end; i++ {
		d := m.drafts[i]
		line := fmt.Sprintf("%02d %s (%d words)", i+1, d.DisplayTitle(i), d.WordCount())
		if i == m.cursor {
			sb.WriteString(cursorStyle.Render("> " + line))
		} else {
			sb.WriteString(itemStyle.Render("  " + line))
		}
		if p := d.Preview(40); p != "" && m.width > 60 {
			sb.WriteString("  " + previewStyle.Render(p))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.mode == modeRename {
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
	} else if m.status != "" {
		if m.failed {
			sb.WriteString(errorStyle.Render(m.status))
		} else {
			sb.WriteString(statusStyle.Render(m.status))
		}
		sb.WriteString("\n")
	}

	help := "↑/↓: select  J/K: move  r: rename  enter: preview  m: merge  d: delete  s: save  q: quit"
	if m.mode == modeRename {
		help = "enter: keep title  esc: cancel"
	}
	sb.WriteString(controlsStyle.Render(help))

	return sb.String()
}
