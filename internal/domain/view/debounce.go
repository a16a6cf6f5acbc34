package view

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the quiet period applied to free-text search input
// before the filter re-evaluates.
const DefaultSearchDebounce = 500 * time.Millisecond

// Debouncer coalesces a burst of triggers into a single call after the input
// has been quiet for the configured period.
type Debouncer struct {
	quiet time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer; a non-positive quiet period falls back to
// DefaultSearchDebounce.
func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultSearchDebounce
	}
	return &Debouncer{quiet: quiet}
}

// Trigger schedules fn after the quiet period, cancelling any previously
// scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
