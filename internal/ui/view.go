package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/gridscope/internal/ui/panel"
)

const footerHints = "space select  m/u/b filter  h highlight  / search  f jump  n/p page  1-4 pop out  C reset  q quit"

// View renders the whole grid: URL header, the four panels, footer.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(styles.Header.Render(m.urlLine()))
	b.WriteByte('\n')

	if m.focus == focusSearch {
		b.WriteString(m.search.View())
		b.WriteByte('\n')
	}
	if m.focus == focusJump || m.jump.Value() != "" {
		b.WriteString(m.jump.View())
		b.WriteByte('\n')
	}

	data := m.panelData()
	leftWidth := 0
	if m.width > 0 {
		leftWidth = m.width * 2 / 3
	}
	left := data
	left.Width = leftWidth
	right := data
	if m.width > 0 {
		right.Width = m.width - leftWidth - 2
	}

	results := panel.Render(panel.TypeResults, left)
	side := lipgloss.JoinVertical(lipgloss.Left,
		panel.Render(panel.TypeStats, right),
		"",
		panel.Render(panel.TypeFilters, right),
		"",
		panel.Render(panel.TypeSelected, right),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, results, "  ", side))
	b.WriteByte('\n')

	if m.errMsg != "" {
		b.WriteString(styles.Error.Render(m.errMsg))
		b.WriteByte('\n')
	}
	if m.infoMsg != "" {
		b.WriteString(styles.Info.Render(m.infoMsg))
		b.WriteByte('\n')
	}
	if open := m.manager.Open(); len(open) > 0 {
		b.WriteString(styles.Badge.Render("pop-outs: " + strings.Join(open, ", ")))
		b.WriteByte('\n')
	}
	b.WriteString(styles.Footer.Render(footerHints))
	return b.String()
}

// urlLine renders the canonical shareable location. The query string is the
// whole application state; what you see here is what a reload restores.
func (m *Model) urlLine() string {
	encoded := m.bridge.Read().Encode()
	if encoded == "" {
		return "/"
	}
	return "/?" + encoded
}
