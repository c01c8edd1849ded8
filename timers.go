package ircwatch

import (
	"time"

	"git.sr.ht/~taiite/ircwatch/tracker"
)

// Timers arms one-shot callbacks that are run by whoever drains Fired, so
// that they run on the same goroutine as the events.
type Timers struct {
	fired chan func()
	done  chan struct{}
}

func NewTimers() *Timers {
	return &Timers{
		fired: make(chan func(), 16),
		done:  make(chan struct{}),
	}
}

// Fired returns the channel on which expired callbacks are sent.
func (ts *Timers) Fired() <-chan func() {
	return ts.fired
}

// Close discards the callbacks that have not been delivered yet.
func (ts *Timers) Close() {
	close(ts.done)
}

// AfterFunc implements tracker.Timer.
func (ts *Timers) AfterFunc(d time.Duration, f func()) tracker.Stopper {
	t := &timer{}
	t.t = time.AfterFunc(d, func() {
		select {
		case ts.fired <- func() {
			if !t.stopped {
				f()
			}
		}:
		case <-ts.done:
		}
	})
	return t
}

type timer struct {
	t       *time.Timer
	stopped bool // only accessed by the goroutine draining Fired.
}

// Stop prevents the callback from running, even when it has already been
// sent on Fired.
func (t *timer) Stop() bool {
	t.stopped = true
	return t.t.Stop()
}
