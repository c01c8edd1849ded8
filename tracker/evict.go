package tracker

import "time"

type eviction struct {
	timer Stopper
}

// departed is called after key lost a channel membership.  Once it shares no
// channel with us, the user is marked offline and forgotten after the expire
// delay, unless it is being watched.
func (t *Tracker) departed(key Key) {
	r, ok := t.users[key]
	if !ok {
		return
	}
	if len(t.commonChannels(key)) != 0 {
		return
	}
	if _, ok := t.watched[r.nickCf]; ok {
		return
	}
	r.online = false
	t.scheduleEviction(key, t.delay)
}

// scheduleEviction destroys key after the given delay, or right away if the
// delay is zero or less.  A previously scheduled eviction of key is replaced.
func (t *Tracker) scheduleEviction(key Key, delay time.Duration) {
	t.cancelEviction(key)
	if delay <= 0 || t.timer == nil {
		t.log.Debug().Uint64("key", uint64(key)).Msg("evicting user")
		t.destroyKey(key)
		return
	}

	e := &eviction{}
	t.evictions[key] = e
	e.timer = t.timer.AfterFunc(delay, func() {
		t.expire(key, e)
	})
}

func (t *Tracker) cancelEviction(key Key) {
	e, ok := t.evictions[key]
	if !ok {
		return
	}
	delete(t.evictions, key)
	e.timer.Stop()
}

// expire runs when the eviction timer e of key fires.  The timer might have
// been stopped after its callback was queued, in which case e is no longer
// the pending eviction of key and nothing happens.
func (t *Tracker) expire(key Key, e *eviction) {
	if t.evictions[key] != e {
		return
	}
	delete(t.evictions, key)

	r, ok := t.users[key]
	if !ok {
		return
	}
	if len(t.commonChannels(key)) != 0 {
		return
	}
	if _, ok := t.watched[r.nickCf]; ok {
		return
	}
	t.log.Debug().Str("nick", r.nick).Uint64("key", uint64(key)).Msg("user expired")
	t.destroyKey(key)
}
