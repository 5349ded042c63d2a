package sched

import (
	"sort"
	"sync"
	"time"
)

// TestClock is a manually advanced Clock for tests. Timers fire in deadline
// order when Advance moves the clock past them; nothing fires on its own.
type TestClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*testTimer
	nextID int
}

type testTimer struct {
	clock    *TestClock
	id       int
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

// NewTestClock returns a TestClock starting at the given instant.
func NewTestClock(now time.Time) *TestClock {
	return &TestClock{now: now}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *TestClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	t := &testTimer{
		clock:    c,
		id:       c.nextID,
		deadline: c.now.Add(d),
		f:        f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs every timer whose deadline falls
// within the step, in deadline order. The clock sits at each timer's own
// deadline while its callback runs, so a callback that re-arms (a repeating
// ticker) schedules its next firing from that instant, not from the end of
// the step. Callbacks run without the clock lock held so they may schedule
// or stop other timers.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextDueLocked(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if t.deadline.After(c.now) {
			c.now = t.deadline
		}
		t.fired = true
		c.mu.Unlock()
		t.f()
	}
}

// Pending returns the number of timers that are scheduled and not yet fired
// or stopped.
func (c *TestClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (c *TestClock) nextDueLocked(target time.Time) *testTimer {
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].deadline.Equal(c.timers[j].deadline) {
			return c.timers[i].id < c.timers[j].id
		}
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})

	for _, t := range c.timers {
		if t.fired || t.stopped {
			continue
		}
		if t.deadline.After(target) {
			continue
		}
		return t
	}
	return nil
}

func (t *testTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
