package event

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/supercalendrier/supercal/internal/log"
)

// Watcher reports writes to a set of calendar files, debounced so editors
// that write in bursts trigger a single reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	onChange func(string)
	mu       sync.RWMutex
	done     chan struct{}

	dmu      sync.Mutex
	debounce map[string]*time.Timer
}

const debounceDelay = 100 * time.Millisecond

func NewWatcher(onChange func(string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		files:    make(map[string]struct{}),
		onChange: onChange,
		done:     make(chan struct{}),
		debounce: make(map[string]*time.Timer),
	}

	go w.run()
	return w, nil
}

func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[abs]; ok {
		return nil
	}
	if err := w.watcher.Add(abs); err != nil {
		return err
	}
	w.files[abs] = struct{}{}
	return nil
}

func (w *Watcher) RemoveFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[abs]; !ok {
		return nil
	}
	if err := w.watcher.Remove(abs); err != nil {
		return err
	}
	delete(w.files, abs)
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handleEvent(ev.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("file watch error", err)

		case <-w.done:
			return
		}
	}
}

// handleEvent restarts the debounce timer for the path. The entry is removed
// when the timer fires, so the map only holds paths with a delivery pending.
func (w *Watcher) handleEvent(name string) {
	w.dmu.Lock()
	defer w.dmu.Unlock()

	if timer, ok := w.debounce[name]; ok {
		timer.Stop()
	}
	w.debounce[name] = time.AfterFunc(debounceDelay, func() {
		w.dmu.Lock()
		delete(w.debounce, name)
		w.dmu.Unlock()

		w.mu.RLock()
		_, watching := w.files[name]
		w.mu.RUnlock()
		if watching && w.onChange != nil {
			w.onChange(name)
		}
	})
}

func (w *Watcher) pendingDebounces() int {
	w.dmu.Lock()
	defer w.dmu.Unlock()
	return len(w.debounce)
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
