package event

import (
	"sort"
	"sync"
	"time"

	"github.com/supercalendrier/supercal/internal/log"
)

// CompositeSource merges events from several sources, de-duplicating by event
// ID. A failing source is logged and skipped so the rest keep working.
type CompositeSource struct {
	sources   []Source
	mu        sync.RWMutex
	changes   chan ChangeEvent
	stopChans []chan struct{}
}

func NewCompositeSource(sources ...Source) *CompositeSource {
	return &CompositeSource{
		sources: sources,
		changes: make(chan ChangeEvent, 10),
	}
}

func (c *CompositeSource) AddSource(s Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, s)
}

func (c *CompositeSource) SetFiles(files []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.sources {
		s.SetFiles(files)
	}
}

func (c *CompositeSource) Events(start, end time.Time) ([]Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]Event)
	for _, s := range c.sources {
		events, err := s.Events(start, end)
		if err != nil {
			log.Error("event source failed", err)
			continue
		}
		for _, ev := range events {
			if _, ok := seen[ev.ID]; !ok {
				seen[ev.ID] = ev
			}
		}
	}

	all := make([]Event, 0, len(seen))
	for _, ev := range seen {
		all = append(all, ev)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Start().Equal(all[j].Start()) {
			return all[i].Start().Before(all[j].Start())
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func (c *CompositeSource) Watch() (<-chan ChangeEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.sources {
		ch, err := s.Watch()
		if err != nil || ch == nil {
			continue
		}

		stop := make(chan struct{})
		c.stopChans = append(c.stopChans, stop)

		go func(src <-chan ChangeEvent, stop chan struct{}) {
			for {
				select {
				case ev, ok := <-src:
					if !ok {
						return
					}
					select {
					case c.changes <- ev:
					default:
						// channel full, drop
					}
				case <-stop:
					return
				}
			}
		}(ch, stop)
	}

	return c.changes, nil
}

func (c *CompositeSource) StopWatch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, stop := range c.stopChans {
		close(stop)
	}
	c.stopChans = nil

	for _, s := range c.sources {
		s.StopWatch()
	}

	if c.changes != nil {
		close(c.changes)
		c.changes = nil
	}
	return nil
}
