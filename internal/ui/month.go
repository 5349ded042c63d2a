package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/supercalendrier/supercal/internal/event"
	"github.com/supercalendrier/supercal/internal/grid"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const dayCellWidth = 4

// viewMonth renders the month grid with a panel of the selected day's
// events beside it.
func (m *Model) viewMonth() string {
	cells := grid.MonthGridAt(m.ref.Year(), m.ref.Month(), m.cfg.FirstWeekday, m.now)

	var sections []string
	title := m.styles.Header.Render(m.ref.Format("January 2006"))
	sections = append(sections, title, "")

	sections = append(sections, m.weekdayHeader())

	for row := 0; row < len(cells)/7; row++ {
		var line strings.Builder
		for col := 0; col < 7; col++ {
			cell := cells[row*7+col]
			line.WriteString(m.renderDayCell(cell))
		}
		sections = append(sections, line.String())
	}

	calendar := lipgloss.JoinVertical(lipgloss.Left, sections...)
	panel := m.renderDayPanel(m.ref)
	body := lipgloss.JoinHorizontal(lipgloss.Top, calendar, "  ", panel)

	return m.withStatusBar(body)
}

// viewYear renders twelve compact month grids, four per row.
func (m *Model) viewYear() string {
	months := grid.YearGridAt(m.ref.Year(), m.cfg.FirstWeekday, m.now)

	var blocks []string
	for i, cells := range months {
		blocks = append(blocks, m.renderMiniMonth(time.Month(i+1), cells))
	}

	perRow := 4
	if m.width > 0 && m.width < 96 {
		perRow = 3
	}

	var rows []string
	for i := 0; i < len(blocks); i += perRow {
		end := i + perRow
		if end > len(blocks) {
			end = len(blocks)
		}
		var spaced []string
		for _, b := range blocks[i:end] {
			spaced = append(spaced, b, "  ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced...))
		rows = append(rows, "")
	}

	title := m.styles.Header.Render(fmt.Sprintf("%d", m.ref.Year()))
	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, rows...)...)

	return m.withStatusBar(body)
}

func (m *Model) weekdayHeader() string {
	var b strings.Builder
	day := m.cfg.FirstWeekday
	for i := 0; i < 7; i++ {
		name := day.String()[:2]
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("%-*s", dayCellWidth, name)))
		day = (day + 1) % 7
	}
	return b.String()
}

func (m *Model) renderDayCell(cell grid.Cell) string {
	label := fmt.Sprintf("%2d", cell.Date.Day())

	marker := " "
	if len(m.eventsOn(cell.Date)) > 0 {
		marker = "*"
	}
	text := fmt.Sprintf("%s%s ", label, marker)

	style := m.styles.Normal
	switch {
	case cell.IsToday:
		style = m.styles.Today
	case sameCalendarDay(cell.Date, m.ref):
		style = m.styles.Selected
	case !cell.InCurrentPeriod:
		style = m.styles.Dimmed
	case isWeekend(cell.Date):
		style = m.styles.Weekend
	}

	return style.Render(text)
}

func (m *Model) renderMiniMonth(month time.Month, cells []grid.Cell) string {
	var lines []string
	lines = append(lines, m.styles.Header.Render(month.String()[:3]))

	for row := 0; row < len(cells)/7; row++ {
		var line strings.Builder
		for col := 0; col < 7; col++ {
			cell := cells[row*7+col]
			if !cell.InCurrentPeriod {
				line.WriteString("   ")
				continue
			}
			text := fmt.Sprintf("%2d ", cell.Date.Day())
			if cell.IsToday {
				line.WriteString(m.styles.Today.Render(text))
			} else {
				line.WriteString(m.styles.Normal.Render(text))
			}
		}
		lines = append(lines, line.String())
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderDayPanel lists the events of the given day, wrapped to a fixed
// column width.
func (m *Model) renderDayPanel(date time.Time) string {
	width := 38
	if m.width > 0 && m.width-40 < width {
		width = m.width - 40
	}
	if width < 20 {
		return ""
	}

	var lines []string
	lines = append(lines, m.styles.Header.Render(date.Format(m.cfg.DateFormat)))
	lines = append(lines, "")

	events := m.eventsOn(date)
	if len(events) == 0 {
		lines = append(lines, m.styles.Dimmed.Render("No events"))
	}

	for _, ev := range events {
		lines = append(lines, m.renderEventLine(ev, width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderEventLine(ev event.Event, width int) string {
	prefix := "      "
	if ev.Time != nil {
		prefix = ev.Time.Format(m.cfg.TimeFormat) + " "
	}

	text := prefix + ev.Summary
	if m.cfg.WrapText {
		text = wordwrap.String(text, width)
	}

	if ev.Priority == event.PriorityHigh {
		return m.styles.Priority.Render(text)
	}
	return m.styles.Event.Render(text)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
