package event

import "time"

// Source supplies calendar events from some backing store. The core never
// owns or persists events; it only reads windows of them.
type Source interface {
	// Events returns all events starting within [start, end].
	Events(start, end time.Time) ([]Event, error)
	// SetFiles points the source at its backing files.
	SetFiles(files []string)
	// Watch returns a channel delivering a ChangeEvent whenever a backing
	// file changes, or nil if the source does not support watching.
	Watch() (<-chan ChangeEvent, error)
	// StopWatch stops any file watching.
	StopWatch() error
}

// ChangeEvent records a change to a backing file.
type ChangeEvent struct {
	Path      string
	Timestamp time.Time
}
