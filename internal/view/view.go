// Package view holds the calendar's navigation state: which granularity is
// shown and which date the view is anchored on. Rendering and change
// notification are delegated to injected collaborators.
package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/supercalendrier/supercal/internal/sched"
)

type Granularity int

const (
	Year Granularity = iota
	Month
	Week
	Day
)

func (g Granularity) String() string {
	switch g {
	case Year:
		return "year"
	case Month:
		return "month"
	case Week:
		return "week"
	case Day:
		return "day"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// ErrInvalidGranularity is returned for view names the state machine does not
// recognize; the previous state is retained.
var ErrInvalidGranularity = errors.New("invalid granularity")

// ErrMissingRenderTarget is reported when no renderer is attached; the render
// is skipped, nothing panics.
var ErrMissingRenderTarget = errors.New("missing render target")

// ParseGranularity maps a configured view name onto a Granularity.
func ParseGranularity(name string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "year":
		return Year, nil
	case "month":
		return Month, nil
	case "week":
		return Week, nil
	case "day":
		return Day, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidGranularity, name)
	}
}

// Renderer receives render requests. It is the display surface boundary; the
// state never builds presentation itself.
type Renderer interface {
	Render(g Granularity, ref time.Time)
}

// Listener receives change notifications. ViewChanged is emitted after the
// render settles (deferred by notifyDelay); DateChanged is synchronous.
type Listener interface {
	ViewChanged(g Granularity)
	DateChanged(ref time.Time)
}

// notifyDelay separates the render from the view-change notification so
// dependents querying the new view see settled state.
const notifyDelay = 100 * time.Millisecond

// State is the view state machine. The reference date is replaced on every
// navigation, never mutated in place, so renders can hold the previous value
// safely.
type State struct {
	clock    sched.Clock
	renderer Renderer
	listener Listener
	message  func(string)
	report   func(error)

	granularity Granularity
	ref         time.Time

	// anchorDay is the day-of-month the user last chose directly. Month and
	// year steps clamp the visible day to the target month's length but keep
	// navigating from the anchor, so stepping off a 31st and back returns to
	// the 31st.
	anchorDay int

	pendingNotify sched.Timer
}

// Option configures a State.
type Option func(*State)

func WithRenderer(r Renderer) Option { return func(s *State) { s.renderer = r } }

func WithListener(l Listener) Option { return func(s *State) { s.listener = l } }

// WithMessageSink receives transient user-facing confirmations (e.g. after a
// jump to today). The sink formats nothing; it gets a short token.
func WithMessageSink(f func(string)) Option { return func(s *State) { s.message = f } }

// WithErrorReporter receives non-fatal errors such as a skipped render.
func WithErrorReporter(f func(error)) Option { return func(s *State) { s.report = f } }

func New(clock sched.Clock, g Granularity, ref time.Time, opts ...Option) *State {
	s := &State{
		clock:       clock,
		granularity: g,
		ref:         ref,
		anchorDay:   ref.Day(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) Granularity() Granularity { return s.granularity }

func (s *State) Reference() time.Time { return s.ref }

// SetGranularity switches the displayed view. It renders immediately and
// defers the ViewChanged notification; a rapid second switch supersedes any
// notification still pending.
func (s *State) SetGranularity(g Granularity) error {
	if g < Year || g > Day {
		return fmt.Errorf("%w: %d", ErrInvalidGranularity, int(g))
	}

	s.granularity = g
	s.render()

	if s.pendingNotify != nil {
		s.pendingNotify.Stop()
	}
	if s.listener != nil {
		s.pendingNotify = s.clock.AfterFunc(notifyDelay, func() {
			s.listener.ViewChanged(g)
		})
	}
	return nil
}

// SetGranularityName is SetGranularity for a configured view name. On an
// unknown name the previous state is retained.
func (s *State) SetGranularityName(name string) error {
	g, err := ParseGranularity(name)
	if err != nil {
		return err
	}
	return s.SetGranularity(g)
}

// Navigate moves the reference date by steps units of the current
// granularity (negative steps move backwards), renders, and notifies
// synchronously.
func (s *State) Navigate(steps int) {
	switch s.granularity {
	case Year:
		s.ref = s.addMonths(12 * steps)
	case Month:
		s.ref = s.addMonths(steps)
	case Week:
		s.ref = s.ref.AddDate(0, 0, 7*steps)
		s.anchorDay = s.ref.Day()
	case Day:
		s.ref = s.ref.AddDate(0, 0, steps)
		s.anchorDay = s.ref.Day()
	}

	s.render()
	if s.listener != nil {
		s.listener.DateChanged(s.ref)
	}
}

// addMonths moves the reference by whole months without AddDate's overflow
// normalization: the day lands on min(anchorDay, length of target month), so
// Jan 31 plus one month is Feb 28, not Mar 3, and Feb 29 plus a year is
// Feb 28.
func (s *State) addMonths(months int) time.Time {
	r := s.ref
	first := time.Date(r.Year(), r.Month(), 1,
		r.Hour(), r.Minute(), r.Second(), r.Nanosecond(), r.Location())
	target := first.AddDate(0, months, 0)

	day := s.anchorDay
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		r.Hour(), r.Minute(), r.Second(), r.Nanosecond(), r.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SetReference anchors the view on an arbitrary date, as after a goto-date
// jump. Renders and notifies like Navigate.
func (s *State) SetReference(ref time.Time) {
	s.ref = ref
	s.anchorDay = ref.Day()

	s.render()
	if s.listener != nil {
		s.listener.DateChanged(s.ref)
	}
}

// GoToToday resets the reference date to the clock's now, renders, notifies,
// and signals a confirmation through the message sink.
func (s *State) GoToToday() {
	s.ref = s.clock.Now()
	s.anchorDay = s.ref.Day()

	s.render()
	if s.listener != nil {
		s.listener.DateChanged(s.ref)
	}
	if s.message != nil {
		s.message("today")
	}
}

// Close cancels any deferred notification still pending.
func (s *State) Close() {
	if s.pendingNotify != nil {
		s.pendingNotify.Stop()
		s.pendingNotify = nil
	}
}

func (s *State) render() {
	if s.renderer == nil {
		if s.report != nil {
			s.report(ErrMissingRenderTarget)
		}
		return
	}
	s.renderer.Render(s.granularity, s.ref)
}
