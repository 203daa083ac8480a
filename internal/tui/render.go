package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/locate"
	"github.com/penzero00/Panel-Zero/internal/model"
)

// entry is one issue together with where (if anywhere) it landed in
// the document.
type entry struct {
	issue   model.Issue
	outcome locate.Outcome
	match   locate.Match
}

// buildEntries locates every issue against the document so the list
// can show outcomes and matched paragraphs.
func buildEntries(doc *docx.Document, issues []model.Issue) []entry {
	loc := locate.New()
	paras := doc.Paragraphs()

	entries := make([]entry, 0, len(issues))
	for _, is := range issues {
		match, outcome := loc.Locate(&is, paras)
		entries = append(entries, entry{issue: is, outcome: outcome, match: match})
	}
	return entries
}

func severityStyle(b model.Severity) lipgloss.Style {
	if b == model.SeverityMajor {
		return severityMajorStyle
	}
	return severityMinorStyle
}

func outcomeLabel(o locate.Outcome) string {
	switch o {
	case locate.Matched:
		return outcomeAppliedStyle.Render("✓")
	case locate.NotFound:
		return outcomeNotFoundStyle.Render("✗")
	default:
		return outcomeSkippedStyle.Render("−")
	}
}

func (m Model) renderIssueList(width, height int) string {
	var b strings.Builder

	if len(m.visible) == 0 {
		b.WriteString(issueItemStyle.Render("No issues under this filter"))
	}

	maxLine := width - 4
	for i, idx := range m.visible {
		e := m.entries[idx]

		sev := severityStyle(e.issue.Bucket).Render(strings.ToUpper(e.issue.Bucket.String())[:3])
		label := e.issue.Type
		if label == "" {
			label = "general"
		}
		line := fmt.Sprintf("%s %s %s  %s", outcomeLabel(e.outcome), sev, label,
			truncate(e.issue.Issue, maxLine-12-len(label)))

		style := issueItemStyle
		if i == m.cursor {
			style = issueItemSelectedStyle
		}

		b.WriteString(style.Width(width - 4).Render(line))
		if i < len(m.visible)-1 {
			b.WriteByte('\n')
		}
	}

	return issueListStyle.Width(width).Height(height - 2).Render(b.String())
}

func (m Model) renderDetail(width, height int) string {
	innerHeight := height - 2

	if len(m.visible) == 0 {
		return detailStyle.Width(width).Height(innerHeight).Render("Nothing selected")
	}

	e := m.entries[m.visible[m.cursor]]
	wrapWidth := width - 6

	var b strings.Builder
	b.WriteString(detailHeaderStyle.Render(headerFor(e)))
	b.WriteByte('\n')

	b.WriteString(detailLabelStyle.Render("Issue: "))
	b.WriteString(wrap(e.issue.Issue, wrapWidth))
	b.WriteString("\n\n")

	if quote, ok := e.issue.LocationText(); ok {
		b.WriteString(detailLabelStyle.Render("Quoted text:"))
		b.WriteByte('\n')
		b.WriteString(quoteStyle.Render(wrap(quote, wrapWidth)))
		b.WriteString("\n\n")
	}

	if e.issue.Suggestion != "" {
		b.WriteString(detailLabelStyle.Render("Suggestion:"))
		b.WriteByte('\n')
		b.WriteString(suggestionStyle.Render(wrap(e.issue.Suggestion, wrapWidth)))
		b.WriteString("\n\n")
	}

	switch e.outcome {
	case locate.Matched:
		b.WriteString(detailLabelStyle.Render(
			fmt.Sprintf("Matched paragraph %d via %s:", e.match.ParaIndex, e.match.Strategy)))
		b.WriteByte('\n')
		if para := m.paragraphAt(e.match.ParaIndex); para != nil {
			b.WriteString(wrap(para.Text(), wrapWidth))
		}
	case locate.NotFound:
		b.WriteString(outcomeNotFoundStyle.Render("The quoted text was not found in the document."))
	default:
		b.WriteString(outcomeSkippedStyle.Render("No usable location text; issue was skipped."))
	}

	return detailStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) paragraphAt(index int) *docx.Paragraph {
	for _, p := range m.doc.Paragraphs() {
		if p.Index == index {
			return p
		}
	}
	return nil
}

func headerFor(e entry) string {
	label := e.issue.Type
	if label == "" {
		label = "general"
	}
	return fmt.Sprintf("%s · %s", label, e.issue.Bucket)
}

func (m Model) renderStatusBar() string {
	s := m.result.Summary
	left := fmt.Sprintf(" %d/%d", m.cursor+1, len(m.visible))
	if m.flash != "" {
		left += "  " + flashStyle.Render(m.flash)
	}

	right := fmt.Sprintf("✓%d ✗%d −%d  filter: %s  ? help ",
		s.HighlightsApplied, s.NotFound, s.Skipped, m.filter)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderHelpScreen() string {
	var b strings.Builder

	b.WriteString(detailHeaderStyle.Render("panelzero — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Previous issue"},
		{"↓/j", "Next issue"},
		{"n/Tab", "Next unlocated issue"},
		{"N/S-Tab", "Previous unlocated issue"},
		{"f", "Cycle outcome filter"},
		{"w", "Write markdown report"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) > max {
		return s[:max-1] + "…"
	}
	return s
}

// wrap folds text at word boundaries to the given width.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(s) {
		if lineLen > 0 && lineLen+1+len(word) > width {
			b.WriteByte('\n')
			lineLen = 0
		} else if lineLen > 0 {
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}
