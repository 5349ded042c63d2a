package sched

import "time"

// Timer is a cancellable pending callback. Stop reports whether the call was
// prevented from running; stopping an already-fired or already-stopped timer
// is a no-op.
type Timer interface {
	Stop() bool
}

// Clock abstracts wall-clock time and deferred callbacks so timer-driven
// behavior can be fast-forwarded in tests instead of waited out.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns a Clock backed by the real time package.
func SystemClock() Clock { return systemClock{} }
