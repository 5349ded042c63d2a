package ui

import (
	"fmt"
	"time"

	"github.com/supercalendrier/supercal/internal/config"
	"github.com/supercalendrier/supercal/internal/event"
	"github.com/supercalendrier/supercal/internal/grid"
	"github.com/supercalendrier/supercal/internal/parser"
	"github.com/supercalendrier/supercal/internal/sched"
	"github.com/supercalendrier/supercal/internal/timeline"
	"github.com/supercalendrier/supercal/internal/view"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// overlay is a modal surface drawn instead of the calendar.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayEditor
	overlayGoto
)

type Model struct {
	// Core components
	cfg    *config.Config
	source event.Source
	store  *event.ICSSource // write side for new events; nil when read-only
	state  *view.State
	parser *parser.Parser

	// View state, mirrored from view.State on every render request
	granularity view.Granularity
	ref         time.Time

	// Event cache for the visible window
	events      []event.Event
	loadedStart time.Time
	loadedEnd   time.Time

	// Current-time indicator
	now       time.Time
	clockLine *timeline.Ticker

	// UI state
	width   int
	height  int
	overlay overlay
	message string
	input   textinput.Model
	send    func(tea.Msg)

	styles Styles
}

// Message types
type tickMsg struct{}
type messageTimeoutMsg struct{}

// TimeTickMsg updates the current-time indicator; sent by the minute ticker.
type TimeTickMsg struct{ Now time.Time }

// ViewChangedMsg arrives after a granularity switch has rendered and settled.
type ViewChangedMsg struct{ Granularity view.Granularity }

// EventsChangedMsg signals that a backing calendar file changed on disk.
type EventsChangedMsg struct{}

func NewModel(cfg *config.Config, source event.Source, store *event.ICSSource) *Model {
	now := time.Now()

	input := textinput.New()
	input.CharLimit = 200
	input.Width = 60

	m := &Model{
		cfg:    cfg,
		source: source,
		store:  store,
		parser: parser.New(),
		now:    now,
		input:  input,
		styles: DefaultStyles(),
	}

	startup := view.Month
	if g, err := view.ParseGranularity(cfg.StartupView); err == nil {
		startup = g
	}

	m.state = view.New(sched.SystemClock(), startup, now,
		view.WithRenderer(m),
		view.WithListener(m),
		view.WithMessageSink(func(string) { m.message = "Jumped to today" }),
		view.WithErrorReporter(func(err error) { m.message = err.Error() }),
	)

	// Populate the mirrored fields and the event cache.
	m.Render(startup, now)

	return m
}

// SetSend wires the model to a running program so timer-driven notifications
// arrive as messages. Must be called before Init.
func (m *Model) SetSend(send func(tea.Msg)) {
	m.send = send
	m.clockLine = timeline.NewTicker(sched.SystemClock(), timeline.TickInterval, func(now time.Time) {
		send(TimeTickMsg{Now: now})
	})
	m.syncClockLine()
}

// Render implements view.Renderer: it mirrors the state and refreshes the
// event cache for the new window.
func (m *Model) Render(g view.Granularity, ref time.Time) {
	m.granularity = g
	m.ref = ref
	m.refreshEvents()
}

// ViewChanged implements view.Listener; it fires after the render settles.
func (m *Model) ViewChanged(g view.Granularity) {
	if m.send != nil {
		m.send(ViewChangedMsg{Granularity: g})
	}
}

// DateChanged implements view.Listener.
func (m *Model) DateChanged(ref time.Time) {
	// The render preceding this notification already refreshed everything
	// the TUI needs; other frontends may care.
}

func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		if m.cfg.AutoRefresh {
			m.loadEvents()
			return m, m.tickCmd()
		}
		return m, nil

	case TimeTickMsg:
		m.now = msg.Now
		return m, nil

	case ViewChangedMsg:
		m.syncClockLine()
		return m, nil

	case EventsChangedMsg:
		m.loadEvents()
		return m, nil

	case messageTimeoutMsg:
		m.message = ""
		return m, nil
	}

	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.overlay {
	case overlayHelp:
		return m.viewHelp()
	case overlayEditor:
		return m.viewEditor()
	case overlayGoto:
		return m.viewGoto()
	}

	switch m.granularity {
	case view.Year:
		return m.viewYear()
	case view.Week:
		return m.viewWeek()
	case view.Day:
		return m.viewDay()
	default:
		return m.viewMonth()
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay == overlayEditor || m.overlay == overlayGoto {
		return m.handleInputKeys(msg)
	}

	if m.overlay == overlayHelp {
		m.overlay = overlayNone
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.clockLine != nil {
			m.clockLine.Stop()
		}
		m.state.Close()
		return m, tea.Quit

	case "?":
		m.overlay = overlayHelp

	case "t":
		m.state.GoToToday()
		return m, m.clearMessageCmd()

	case "r":
		m.loadEvents()
		return m, m.showMessage("Refreshed")

	case "l", "right":
		m.state.Navigate(1)

	case "h", "left":
		m.state.Navigate(-1)

	case "j", "down":
		// One unit forward in the next finer-grained sense: a week inside
		// the month view, a day elsewhere.
		if m.granularity == view.Month {
			m.state.SetReference(m.ref.AddDate(0, 0, 7))
		} else {
			m.state.SetReference(m.ref.AddDate(0, 0, 1))
		}

	case "k", "up":
		if m.granularity == view.Month {
			m.state.SetReference(m.ref.AddDate(0, 0, -7))
		} else {
			m.state.SetReference(m.ref.AddDate(0, 0, -1))
		}

	case "1", "y":
		return m.switchView(view.Year)

	case "2", "m":
		return m.switchView(view.Month)

	case "3", "w":
		return m.switchView(view.Week)

	case "4", "d":
		return m.switchView(view.Day)

	case "g":
		m.overlay = overlayGoto
		m.input.Reset()
		m.input.Placeholder = "2025-03-01, 3/1, today, next friday..."
		m.input.Focus()

	case "n":
		if m.store == nil {
			return m, m.showMessage("Calendar is read-only")
		}
		m.overlay = overlayEditor
		m.input.Reset()
		m.input.Placeholder = "tomorrow 2pm Meeting with team"
		m.input.SetValue(m.ref.Format("2006-01-02") + " ")
		m.input.CursorEnd()
		m.input.Focus()
	}

	return m, nil
}

func (m *Model) switchView(g view.Granularity) (tea.Model, tea.Cmd) {
	if err := m.state.SetGranularity(g); err != nil {
		return m, m.showMessage(err.Error())
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.overlay = overlayNone
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		active := m.overlay
		m.overlay = overlayNone
		m.input.Blur()

		if active == overlayGoto {
			return m, m.gotoDate(value)
		}
		return m, m.saveEvent(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) gotoDate(value string) tea.Cmd {
	m.parser.SetNow(time.Now())
	date, err := m.parser.ParseDate(value)
	if err != nil {
		return m.showMessage(fmt.Sprintf("Bad date: %v", err))
	}
	m.state.SetReference(date)
	return m.showMessage("Moved to " + date.Format(m.cfg.DateFormat))
}

func (m *Model) saveEvent(value string) tea.Cmd {
	if value == "" {
		return nil
	}

	m.parser.SetNow(time.Now())
	parsed, err := m.parser.Parse(value)
	if err != nil {
		return m.showMessage(fmt.Sprintf("Parse error: %v", err))
	}
	if parsed.Text == "" {
		return m.showMessage("Event needs a description")
	}

	start := parsed.Date
	allDay := !parsed.HasTime
	if parsed.HasTime {
		start = parsed.Time
	}

	if _, err := m.store.AddEvent(parsed.Text, start, parsed.Duration, allDay); err != nil {
		return m.showMessage(fmt.Sprintf("Error: %v", err))
	}

	m.loadEvents()
	return m.showMessage("Event added")
}

// currentCells returns the grid backing the active view.
func (m *Model) currentCells() []grid.Cell {
	switch m.granularity {
	case view.Year:
		months := grid.YearGridAt(m.ref.Year(), m.cfg.FirstWeekday, m.now)
		var all []grid.Cell
		for _, cells := range months {
			all = append(all, cells...)
		}
		return all
	case view.Week:
		return grid.WeekGridAt(m.ref, m.cfg.FirstWeekday, m.now)
	case view.Day:
		return grid.DayGridAt(m.ref, m.now)
	default:
		return grid.MonthGridAt(m.ref.Year(), m.ref.Month(), m.cfg.FirstWeekday, m.now)
	}
}

// refreshEvents reloads the cache whenever the visible window differs from
// the loaded one. Any reference or granularity change that shifts the window
// triggers a reload; only a same-window render reuses the cache.
func (m *Model) refreshEvents() {
	cells := m.currentCells()
	if len(cells) == 0 {
		return
	}
	start := cells[0].Date
	end := cells[len(cells)-1].Date.AddDate(0, 0, 1)

	if start.Equal(m.loadedStart) && end.Equal(m.loadedEnd) {
		return
	}
	m.fetchEvents(start, end)
}

// loadEvents unconditionally refetches the visible window, for explicit
// refreshes and file-change reloads.
func (m *Model) loadEvents() {
	cells := m.currentCells()
	if len(cells) == 0 {
		return
	}
	m.fetchEvents(cells[0].Date, cells[len(cells)-1].Date.AddDate(0, 0, 1))
}

func (m *Model) fetchEvents(start, end time.Time) {
	events, err := m.source.Events(start, end)
	if err != nil {
		m.message = fmt.Sprintf("Error loading events: %v", err)
		return
	}
	m.events = events
	m.loadedStart = start
	m.loadedEnd = end
}

// eventsOn returns the cached events falling on the given day, in start
// order.
func (m *Model) eventsOn(date time.Time) []event.Event {
	var out []event.Event
	for _, ev := range m.events {
		if ev.OnDay(date) {
			out = append(out, ev)
		}
	}
	return out
}

// syncClockLine starts the minute ticker for time-bearing views and stops it
// for the rest, so no recurring work is left behind a year/month view.
func (m *Model) syncClockLine() {
	if m.clockLine == nil {
		return
	}
	if m.granularity == view.Week || m.granularity == view.Day {
		m.clockLine.Start()
	} else {
		m.clockLine.Stop()
	}
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	return m.clearMessageCmd()
}

func (m *Model) clearMessageCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return messageTimeoutMsg{}
	})
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.RefreshRate, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
