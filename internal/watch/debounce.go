package watch

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of triggers into a single call of fire, made
// once no trigger arrived for window.
type debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	window time.Duration
	fire   func()
}

func newDebouncer(window time.Duration, fire func()) *debouncer {
	return &debouncer{window: window, fire: fire}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
