package event

import (
	"fmt"
	"time"
)

type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

// Event is a single calendar entry. Recurring entries arrive already expanded
// into concrete occurrences, one Event per occurrence.
type Event struct {
	ID          string
	Date        time.Time      // midnight of the event's day
	Time        *time.Time     // nil for all-day events
	Duration    *time.Duration // nil when no end time is known
	Summary     string
	Body        string
	Location    string
	Priority    Priority
	Tags        []string
	Source      string // identifier of the source that produced this event
	IsRepeating bool
}

// Start returns the event's starting instant. All-day events start at
// midnight of their day.
func (e Event) Start() time.Time {
	if e.Time != nil {
		return *e.Time
	}
	return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.Local)
}

// End returns the event's ending instant, or its start when no duration is
// known.
func (e Event) End() time.Time {
	start := e.Start()
	if e.Duration != nil {
		return start.Add(*e.Duration)
	}
	return start
}

// OnDay reports whether the event falls on the same calendar day as t.
func (e Event) OnDay(t time.Time) bool {
	return e.Date.Year() == t.Year() && e.Date.YearDay() == t.YearDay()
}

// OccurrenceID builds a stable per-occurrence identifier for a recurring
// event instance.
func OccurrenceID(uid string, start time.Time) string {
	return fmt.Sprintf("%s@%s", uid, start.Format(time.RFC3339))
}
