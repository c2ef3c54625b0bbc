package session

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of single-token mutations into display
// snapshots. It is a standard trailing debounce: a single-shot timer
// re-armed on every bump, so the emit fires once the stream goes quiet
// for the configured delay. Cancel drops any pending emit; terminal
// events cancel the timer and publish the final snapshot directly.
type debouncer struct {
	delay time.Duration
	emit  func()

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(delay time.Duration, emit func()) *debouncer {
	return &debouncer{delay: delay, emit: emit}
}

// bump re-arms the trailing timer after a buffer mutation.
func (d *debouncer) bump() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	d.mu.Unlock()
	d.emit()
}

// cancel drops a pending emit without firing it.
func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
