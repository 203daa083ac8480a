// Package tui implements the Bubble Tea terminal user interface for
// browsing the findings of a review pass.
package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/penzero00/Panel-Zero/internal/annotate"
	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/locate"
	"github.com/penzero00/Panel-Zero/internal/model"
)

// filterMode narrows the issue list to one outcome class.
type filterMode int

const (
	filterAll filterMode = iota
	filterApplied
	filterNotFound
	filterSkipped
)

func (f filterMode) String() string {
	switch f {
	case filterApplied:
		return "applied"
	case filterNotFound:
		return "not found"
	case filterSkipped:
		return "skipped"
	default:
		return "all"
	}
}

// Model is the top-level Bubble Tea model for panelzero.
type Model struct {
	doc     *docx.Document
	result  *annotate.Result
	entries []entry

	// UI state
	width  int
	height int

	// Issue list
	visible []int // indexes into entries under the current filter
	cursor  int   // position within visible
	filter  filterMode

	// Transient status bar message
	flash string

	// Help
	showHelp bool
}

// New creates a new TUI model. Issues are re-located against the
// original document so each list entry carries its outcome and the
// paragraph it was matched to.
func New(doc *docx.Document, issues []model.Issue, result *annotate.Result) Model {
	m := Model{
		doc:     doc,
		result:  result,
		entries: buildEntries(doc, issues),
	}
	m.applyFilter()
	return m
}

func (m *Model) applyFilter() {
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		switch m.filter {
		case filterApplied:
			if e.outcome != locate.Matched {
				continue
			}
		case filterNotFound:
			if e.outcome != locate.NotFound {
				continue
			}
		case filterSkipped:
			if e.outcome != locate.Skipped {
				continue
			}
		}
		m.visible = append(m.visible, i)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.flash = ""
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, keys.NextMiss):
			m.jumpMiss(1)

		case key.Matches(msg, keys.PrevMiss):
			m.jumpMiss(-1)

		case key.Matches(msg, keys.Filter):
			m.filter = (m.filter + 1) % 4
			m.cursor = 0
			m.applyFilter()

		case key.Matches(msg, keys.Report):
			m.writeReport()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// jumpMiss moves the cursor to the next or previous unlocated issue.
func (m *Model) jumpMiss(dir int) {
	for i := m.cursor + dir; i >= 0 && i < len(m.visible); i += dir {
		if m.entries[m.visible[i]].outcome == locate.NotFound {
			m.cursor = i
			return
		}
	}
}

func (m *Model) writeReport() {
	path := reportPath(m.result.OutputPath)
	if err := os.WriteFile(path, []byte(Report(m.entries, m.result)), 0o644); err != nil {
		m.flash = "report failed: " + err.Error()
		return
	}
	m.flash = "report written to " + path
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Layout: issue list on left, detail on right
	listWidth := m.listWidth()
	detailWidth := m.width - listWidth - 1 // -1 for gap

	list := m.renderIssueList(listWidth, m.height-2)
	detail := m.renderDetail(detailWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)

	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) listWidth() int {
	w := m.width * 2 / 5
	if w < 30 {
		w = 30
	}
	if w > m.width-20 {
		w = m.width - 20
	}
	return w
}

func (m Model) renderHelp() string {
	return renderHelpScreen()
}

// Run starts the TUI application.
func Run(doc *docx.Document, issues []model.Issue, result *annotate.Result) error {
	m := New(doc, issues, result)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
