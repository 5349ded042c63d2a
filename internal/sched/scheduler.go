// Package sched schedules reminder callbacks ahead of event start times.
// All deferral goes through the Clock interface so tests can fast-forward
// instead of sleeping.
package sched

import (
	"fmt"
	"sync"
	"time"

	"github.com/supercalendrier/supercal/internal/event"
)

// NotifyFunc is invoked when a reminder fires. The lead label is a short
// human-readable form of the lead time, e.g. "15m" or "1d".
type NotifyFunc func(ev event.Event, lead string)

// Scheduler owns the pending reminders, keyed by event ID. It never fires a
// reminder whose instant already passed at scheduling time, and a disabled
// scheduler suppresses firing entirely.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	notify   NotifyFunc
	pending  map[string][]*reminder
	disabled bool
}

type reminder struct {
	timer  Timer
	fireAt time.Time
	lead   time.Duration
}

func New(clock Clock, notify NotifyFunc) *Scheduler {
	return &Scheduler{
		clock:   clock,
		notify:  notify,
		pending: make(map[string][]*reminder),
	}
}

// Schedule registers one reminder per lead time for the event. Lead times
// whose fire instant is already in the past are silently skipped.
func (s *Scheduler) Schedule(ev event.Event, leads []time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return
	}

	now := s.clock.Now()
	start := ev.Start()

	for _, lead := range leads {
		fireAt := start.Add(-lead)
		if !fireAt.After(now) {
			continue
		}

		r := &reminder{fireAt: fireAt, lead: lead}
		lead := lead
		r.timer = s.clock.AfterFunc(fireAt.Sub(now), func() {
			s.fire(ev, r, lead)
		})
		s.pending[ev.ID] = append(s.pending[ev.ID], r)
	}
}

func (s *Scheduler) fire(ev event.Event, r *reminder, lead time.Duration) {
	s.mu.Lock()
	if s.disabled {
		s.mu.Unlock()
		return
	}

	// Drop the fired reminder from the pending set; remove the key once the
	// event has no reminders left.
	remaining := s.pending[ev.ID][:0]
	for _, p := range s.pending[ev.ID] {
		if p != r {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		delete(s.pending, ev.ID)
	} else {
		s.pending[ev.ID] = remaining
	}
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		notify(ev, FormatLead(lead))
	}
}

// Cancel stops every pending reminder for the event. Cancelling an unknown
// event, or cancelling twice, is a no-op.
func (s *Scheduler) Cancel(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.pending[eventID] {
		r.timer.Stop()
	}
	delete(s.pending, eventID)
}

// CancelAll stops every pending reminder.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

func (s *Scheduler) cancelAllLocked() {
	for id, rs := range s.pending {
		for _, r := range rs {
			r.timer.Stop()
		}
		delete(s.pending, id)
	}
}

// Disable cancels everything and suppresses any reminder already past its
// timer but not yet delivered.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = true
	s.cancelAllLocked()
}

// Enable lifts a previous Disable for subsequent Schedule calls.
func (s *Scheduler) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = false
}

// PendingCount returns the number of pending reminders for the event.
func (s *Scheduler) PendingCount(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[eventID])
}

// FormatLead renders a lead time as the label passed to the notifier: whole
// days as "Nd", whole hours as "Nh", otherwise minutes.
func FormatLead(lead time.Duration) string {
	if lead >= 24*time.Hour && lead%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", lead/(24*time.Hour))
	}
	if lead >= time.Hour && lead%time.Hour == 0 {
		return fmt.Sprintf("%dh", lead/time.Hour)
	}
	return fmt.Sprintf("%dm", lead/time.Minute)
}

// ParseLead parses a lead-time label such as "15m", "2h" or "1d".
func ParseLead(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
		return 0, fmt.Errorf("invalid lead time %q", s)
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid lead time %q", s)
	}
	return d, nil
}
