package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/supercalendrier/supercal/internal/event"
	"github.com/supercalendrier/supercal/internal/grid"
	"github.com/supercalendrier/supercal/internal/timeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// One terminal row per hour.
const rowsPerHour = 1.0

// viewWeek renders seven day columns with one row per hour. The cell
// containing the current time is highlighted when the week is the current
// one.
func (m *Model) viewWeek() string {
	days := grid.WeekGridAt(m.ref, m.cfg.FirstWeekday, m.now)
	colWidth := m.scheduleColumnWidth(len(days))

	title := m.styles.Header.Render(fmt.Sprintf("Week of %s",
		days[0].Date.Format(m.cfg.DateFormat)))

	header := strings.Repeat(" ", 6)
	for _, day := range days {
		label := day.Date.Format("Mon 2")
		style := m.styles.Header
		if day.IsToday {
			style = m.styles.Today
		}
		header += style.Render(pad(label, colWidth))
	}

	nowRow := m.nowRow(days[0].Date, days[len(days)-1].Date)

	var lines []string
	lines = append(lines, title, "", header)
	for hour := 0; hour < 24; hour++ {
		var line strings.Builder
		line.WriteString(m.styles.Dimmed.Render(fmt.Sprintf("%02d:00 ", hour)))
		for _, day := range days {
			line.WriteString(m.renderHourCell(day, hour, colWidth, nowRow))
		}
		lines = append(lines, line.String())
	}

	return m.withStatusBar(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// viewDay renders a single day as 24 hourly rows with a now-line when the
// day is today.
func (m *Model) viewDay() string {
	day := grid.DayGridAt(m.ref, m.now)[0]

	title := m.styles.Header.Render(m.ref.Format("Monday, " + m.cfg.DateFormat))

	dayStart := time.Date(m.ref.Year(), m.ref.Month(), m.ref.Day(), 0, 0, 0, 0, m.ref.Location())
	nowRow := m.nowRow(dayStart, dayStart)

	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var lines []string
	lines = append(lines, title, "")
	for hour := 0; hour < 24; hour++ {
		label := m.styles.Dimmed.Render(fmt.Sprintf("%02d:00 ", hour))
		body := m.renderHourEvents(day.Date, hour, width)

		if day.IsToday && nowRow == hour {
			marker := m.styles.TimeLine.Render(m.now.Format(m.cfg.TimeFormat) + " " +
				strings.Repeat("-", width-6))
			lines = append(lines, label+body, marker)
			continue
		}
		lines = append(lines, label+body)
	}

	return m.withStatusBar(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// nowRow maps the current time to an hourly row, or -1 when now falls
// outside the visible range.
func (m *Model) nowRow(first, last time.Time) int {
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())
	end := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, last.Location()).AddDate(0, 0, 1)

	offset, ok := timeline.Position(m.now, start, end, rowsPerHour)
	if !ok {
		return -1
	}
	return int(offset) % 24
}

func (m *Model) renderHourCell(day grid.Cell, hour, width, nowRow int) string {
	events := m.eventsInHour(day.Date, hour)

	text := ""
	if len(events) > 0 {
		text = events[0].Summary
		if len(events) > 1 {
			text = fmt.Sprintf("%s +%d", text, len(events)-1)
		}
	}
	text = pad(text, width)

	if day.IsToday && hour == nowRow {
		return m.styles.TimeLine.Render(text)
	}
	if len(events) > 0 {
		return m.styles.Event.Render(text)
	}
	return m.styles.Normal.Render(text)
}

func (m *Model) renderHourEvents(date time.Time, hour, width int) string {
	events := m.eventsInHour(date, hour)
	if len(events) == 0 {
		return ""
	}

	var parts []string
	for _, ev := range events {
		label := ev.Summary
		if ev.Location != "" {
			label += " (" + ev.Location + ")"
		}
		if ev.Priority == event.PriorityHigh {
			parts = append(parts, m.styles.Priority.Render(label))
		} else {
			parts = append(parts, m.styles.Event.Render(label))
		}
	}
	return pad(strings.Join(parts, ", "), width)
}

// eventsInHour returns the day's events starting in the given hour. Untimed
// events surface in the first hour so they stay visible.
func (m *Model) eventsInHour(date time.Time, hour int) []event.Event {
	var out []event.Event
	for _, ev := range m.eventsOn(date) {
		if ev.Time == nil {
			if hour == 0 {
				out = append(out, ev)
			}
			continue
		}
		if ev.Time.Hour() == hour {
			out = append(out, ev)
		}
	}
	return out
}

func (m *Model) scheduleColumnWidth(cols int) int {
	width := (m.width - 8) / cols
	if width < 8 {
		width = 8
	}
	if width > 20 {
		width = 20
	}
	return width
}

// pad fits s into exactly width terminal cells, truncating by display width
// so multibyte and double-width text never splits mid-rune or misaligns the
// columns.
func pad(s string, width int) string {
	if width < 1 {
		return ""
	}
	s = truncate.String(s, uint(width-1))
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}
