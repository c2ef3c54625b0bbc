package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var fired atomic.Int32
	d := newDebouncer(50*time.Millisecond, func() { fired.Add(1) })

	for i := 0; i < 10; i++ {
		d.bump()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("burst of bumps fired %d times, want 1", got)
	}
}

func TestDebouncer_FiresAgainAfterQuiet(t *testing.T) {
	var fired atomic.Int32
	d := newDebouncer(20*time.Millisecond, func() { fired.Add(1) })

	d.bump()
	time.Sleep(80 * time.Millisecond)
	d.bump()
	time.Sleep(80 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("fired %d times, want 2", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var fired atomic.Int32
	d := newDebouncer(30*time.Millisecond, func() { fired.Add(1) })

	d.bump()
	d.cancel()

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("canceled debounce still fired %d times", got)
	}
}

func TestDebouncer_CancelWithoutBump(t *testing.T) {
	d := newDebouncer(10*time.Millisecond, func() {})
	d.cancel()
}
