// Package timeline positions the "now" indicator inside a displayed time
// range and re-derives it on a minute tick while a time-bearing view is
// shown.
package timeline

import (
	"sync"
	"time"

	"github.com/supercalendrier/supercal/internal/sched"
)

// Position returns the vertical offset in pixels of the now indicator within
// [rangeStart, rangeEnd] at pixelsPerHour, and whether the indicator should
// be shown at all. Fractional minutes count.
func Position(now, rangeStart, rangeEnd time.Time, pixelsPerHour float64) (float64, bool) {
	if now.Before(rangeStart) || now.After(rangeEnd) {
		return 0, false
	}
	return now.Sub(rangeStart).Hours() * pixelsPerHour, true
}

// TickInterval is how often the indicator is recomputed while active.
const TickInterval = time.Minute

// Ticker invokes a callback once per interval while started. Stop cancels
// the pending tick; stopping twice is harmless.
type Ticker struct {
	clock    sched.Clock
	interval time.Duration
	onTick   func(now time.Time)

	mu      sync.Mutex
	timer   sched.Timer
	running bool
}

// NewTicker builds a stopped ticker. A zero interval means TickInterval.
func NewTicker(clock sched.Clock, interval time.Duration, onTick func(now time.Time)) *Ticker {
	if interval <= 0 {
		interval = TickInterval
	}
	return &Ticker{clock: clock, interval: interval, onTick: onTick}
}

// Start arms the ticker. Starting an already running ticker is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.arm()
}

// Stop cancels any pending tick. No further callbacks run after Stop
// returns until Start is called again.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Running reports whether the ticker is armed.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Ticker) arm() {
	t.timer = t.clock.AfterFunc(t.interval, func() {
		t.mu.Lock()
		if !t.running {
			t.mu.Unlock()
			return
		}
		t.arm()
		t.mu.Unlock()

		t.onTick(t.clock.Now())
	})
}
