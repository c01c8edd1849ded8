package tracker

import (
	"errors"
	"sort"
	"testing"
	"time"
)

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (ft *fakeTimer) Stop() bool {
	if ft.stopped || ft.fired {
		return false
	}
	ft.stopped = true
	return true
}

// fakeClock is a Timer whose time only moves through Advance.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Stopper {
	ft := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, ft)
	return ft
}

func (c *fakeClock) Advance(d time.Duration) {
	end := c.now + d
	for {
		var next *fakeTimer
		for _, ft := range c.timers {
			if ft.stopped || ft.fired || end < ft.at {
				continue
			}
			if next == nil || ft.at < next.at {
				next = ft
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.f()
	}
	c.now = end
}

func (c *fakeClock) pending() int {
	n := 0
	for _, ft := range c.timers {
		if !ft.stopped && !ft.fired {
			n++
		}
	}
	return n
}

type fakeSender struct {
	lines []string
}

func (s *fakeSender) SendRaw(line string) {
	s.lines = append(s.lines, line)
}

func newTestTracker(delay time.Duration) (*Tracker, *fakeClock, *fakeSender) {
	clock := &fakeClock{}
	sender := &fakeSender{}
	t := New(Params{
		Nick:        "me",
		Sender:      sender,
		Timer:       clock,
		ExpireDelay: delay,
	})
	return t, clock, sender
}

func mustKey(t *testing.T, tr *Tracker, nick string) Key {
	t.Helper()
	key, err := tr.ResolveKey(nick)
	if err != nil {
		t.Fatalf("%q: expected a key, got %v", nick, err)
	}
	return key
}

func assertNotFound(t *testing.T, tr *Tracker, nick string) {
	t.Helper()
	if _, err := tr.ResolveKey(nick); !errors.Is(err, ErrNotFound) {
		t.Errorf("%q: expected ErrNotFound, got %v", nick, err)
	}
}

func assertStrings(t *testing.T, what string, actual, expected []string) {
	t.Helper()
	actual = append([]string(nil), actual...)
	expected = append([]string(nil), expected...)
	sort.Strings(actual)
	sort.Strings(expected)
	if len(actual) != len(expected) {
		t.Errorf("%s: expected %q, got %q", what, expected, actual)
		return
	}
	for i := range actual {
		if actual[i] != expected[i] {
			t.Errorf("%s: expected %q, got %q", what, expected, actual)
			return
		}
	}
}

// assertIndex checks that the nick index and the records agree.
func assertIndex(t *testing.T, tr *Tracker) {
	t.Helper()
	if len(tr.nicks) != len(tr.users) {
		t.Errorf("expected %d index entries, got %d", len(tr.users), len(tr.nicks))
	}
	for nickCf, key := range tr.nicks {
		r, ok := tr.users[key]
		if !ok {
			t.Errorf("index entry %q points to missing key %d", nickCf, key)
			continue
		}
		if r.nickCf != nickCf || tr.casemap(r.nick) != nickCf {
			t.Errorf("index entry %q points to record of %q", nickCf, r.nick)
		}
	}
	for _, c := range tr.channels {
		for key := range c.Members {
			if _, ok := tr.users[key]; !ok {
				t.Errorf("%s: member %d has no record", c.Name, key)
			}
		}
	}
}
