// Package session implements the screensaver activation/exit state machine
// and the single-threaded run loop that owns all of its state.
package session

import (
	"sync"
	"time"
)

// Loop is a single-goroutine task queue. Every piece of session state is
// owned by the goroutine running Run; other goroutines (tray, HTTP
// handlers, timers) mutate it only by posting closures.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a run loop. Call Run on a dedicated goroutine.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run processes posted tasks until Stop is called.
func (l *Loop) Run() {
	for {
		select {
		case <-l.done:
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn for execution on the loop goroutine. Posting after Stop
// is a no-op.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
	case l.tasks <- fn:
	}
}

// Stop terminates the loop. Idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Timer is a rescheduling one-shot timer whose callback runs on the loop.
// Schedule and Cancel are idempotent; Cancel is safe even when the timer
// is not currently scheduled.
type Timer struct {
	loop *Loop
	fn   func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

// NewTimer creates a timer that runs fn on the loop when it fires.
func (l *Loop) NewTimer(fn func()) *Timer {
	return &Timer{loop: l, fn: fn}
}

// Schedule arms the timer to fire once after d, replacing any previously
// scheduled fire.
func (t *Timer) Schedule(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.pending = true
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		t.pending = false
		t.mu.Unlock()
		t.loop.Post(t.fn)
	})
}

// Cancel disarms the timer if it is scheduled.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = false
}

// Pending reports whether a fire is currently scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}
