package ircwatch

import (
	"testing"
	"time"
)

func TestTimersDelivery(t *testing.T) {
	ts := NewTimers()
	defer ts.Close()

	ran := false
	ts.AfterFunc(time.Millisecond, func() { ran = true })

	select {
	case f := <-ts.Fired():
		if ran {
			t.Fatalf("expected the callback to run on the receiving goroutine")
		}
		f()
	case <-time.After(5 * time.Second):
		t.Fatalf("timer did not fire")
	}
	if !ran {
		t.Errorf("expected the callback to run")
	}
}

func TestTimersStop(t *testing.T) {
	ts := NewTimers()
	defer ts.Close()

	stopped := ts.AfterFunc(time.Hour, func() { t.Errorf("stopped timer ran") })
	if !stopped.Stop() {
		t.Errorf("expected Stop to report a pending timer")
	}

	// Stopping after delivery still prevents the callback from running.
	late := ts.AfterFunc(time.Millisecond, func() { t.Errorf("late-stopped timer ran") })
	var f func()
	select {
	case f = <-ts.Fired():
	case <-time.After(5 * time.Second):
		t.Fatalf("timer did not fire")
	}
	if late.Stop() {
		t.Errorf("expected Stop to report an expired timer")
	}
	f()
}
