package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("SuperCal Help"),
		"",
		m.styles.Normal.Render("Navigation:"),
		m.styles.Help.Render("  h/←     - Previous period"),
		m.styles.Help.Render("  l/→     - Next period"),
		m.styles.Help.Render("  j/↓     - Forward a day (a week in month view)"),
		m.styles.Help.Render("  k/↑     - Back a day (a week in month view)"),
		m.styles.Help.Render("  t       - Go to today"),
		m.styles.Help.Render("  g       - Go to date"),
		"",
		m.styles.Normal.Render("Views:"),
		m.styles.Help.Render("  1/y     - Year"),
		m.styles.Help.Render("  2/m     - Month"),
		m.styles.Help.Render("  3/w     - Week"),
		m.styles.Help.Render("  4/d     - Day"),
		"",
		m.styles.Normal.Render("Actions:"),
		m.styles.Help.Render("  n       - New event"),
		m.styles.Help.Render("  r       - Refresh"),
		m.styles.Help.Render("  ?       - Toggle help"),
		m.styles.Help.Render("  q       - Quit"),
		"",
		m.styles.Help.Render("Press any key to return..."),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) viewEditor() string {
	sections := []string{
		m.styles.Header.Render("New Event"),
		"",
		m.styles.Normal.Render("Enter event (e.g., 'tomorrow 2pm Meeting with team'):"),
		m.input.View(),
		"",
		m.styles.Help.Render("Enter to save, Esc to cancel"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) viewGoto() string {
	sections := []string{
		m.styles.Header.Render("Go to Date"),
		"",
		m.styles.Normal.Render("Enter a date:"),
		m.input.View(),
		"",
		m.styles.Help.Render("Enter to jump, Esc to cancel"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) withStatusBar(body string) string {
	bodyHeight := lipgloss.Height(body)
	filler := ""
	if m.height > bodyHeight+1 {
		filler = strings.Repeat("\n", m.height-bodyHeight-2)
	}
	return body + filler + "\n" + m.renderStatusBar()
}

func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf(" %s | %s | Events: %d",
		m.granularity, m.ref.Format(m.cfg.DateFormat), len(m.events))

	right := "? for help | q to quit"

	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left + middle + right)
}
