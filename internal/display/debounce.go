package display

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// DefaultWindow is the quiescence window for range edits.
const DefaultWindow = 300 * time.Millisecond

// Debouncer runs only the last of a burst of triggers, once no new trigger
// has arrived for the window. A superseded trigger is cancelled before it
// fires and its function never runs.
type Debouncer struct {
	clock  clock.Clock
	window time.Duration

	mu      sync.Mutex
	pending *pendingCall
	stopped bool
}

type pendingCall struct {
	timer  clock.Timer
	cancel chan struct{}
}

// NewDebouncer creates a Debouncer. A non-positive window means DefaultWindow.
func NewDebouncer(c clock.Clock, window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{clock: c, window: window}
}

// Trigger schedules fn to run after the window, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked()

	call := &pendingCall{
		timer:  d.clock.NewTimer(d.window),
		cancel: make(chan struct{}),
	}
	d.pending = call

	go func() {
		select {
		case <-call.cancel:
			return
		case <-call.timer.C():
		}

		d.mu.Lock()
		if d.pending != call {
			// Replaced between the timer firing and taking the lock.
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()

		fn()
	}()
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels the pending call and ignores all later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Pending reports whether a call is waiting for its window to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) cancelLocked() {
	if d.pending == nil {
		return
	}
	d.pending.timer.Stop()
	close(d.pending.cancel)
	d.pending = nil
}
