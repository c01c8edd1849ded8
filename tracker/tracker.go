// Package tracker keeps track of the users present on the channels we are on,
// their identity (nick!ident@host) and the privileges they hold there.
//
// A Tracker is not safe for concurrent use.  It is meant to be driven from a
// single goroutine: the one handling IRC events, which must also be the one
// running the callbacks armed through Params.Timer.
package tracker

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultExpireDelay is how long a user that no longer shares a channel with
// us is kept in the registry.
const DefaultExpireDelay = 60 * time.Second

// Sender sends raw protocol lines to the server.
type Sender interface {
	SendRaw(line string)
}

// Stopper is a timer armed by a Timer.
type Stopper interface {
	Stop() bool
}

// Timer arms one-shot callbacks.  The callbacks must run on the goroutine that
// drives the Tracker.
type Timer interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// PrefixTranslator maps a membership prefix from a NAMES reply ('@', '+'...)
// to its channel mode letter.
type PrefixTranslator interface {
	ModeForPrefix(prefix byte) (mode byte, ok bool)
}

type defaultPrefixes struct{}

func (defaultPrefixes) ModeForPrefix(prefix byte) (mode byte, ok bool) {
	switch prefix {
	case '@':
		return 'o', true
	case '+':
		return 'v', true
	}
	return 0, false
}

// Params holds the collaborators of a Tracker.
type Params struct {
	Nick string // our own nickname, if already known.

	Casemap  func(string) string // nickname and channel normalization.
	Sender   Sender
	Timer    Timer
	Prefixes PrefixTranslator

	// ExpireDelay is the grace period before users sharing no channel with us
	// are forgotten.  Zero or less means right away.
	ExpireDelay time.Duration

	Logger *zerolog.Logger
}

// Tracker is the registry of known users and channel members.
type Tracker struct {
	casemap  func(string) string
	sender   Sender
	timer    Timer
	prefixes PrefixTranslator
	delay    time.Duration
	log      zerolog.Logger

	self    string // our nickname.
	uhnames bool   // whether NAMES replies carry full masks.

	seq       Key
	nicks     map[string]Key      // casemapped nickname -> key.
	users     map[Key]*record     // identity records.
	channels  map[string]*channel // casemapped channel name -> members.
	evictions map[Key]*eviction   // pending evictions.
	watched   map[string]struct{} // casemapped nicknames reported online by WATCH/MONITOR.
	whoReqs   map[string]struct{} // casemapped channels with a WHO request in flight.
}

// New returns an empty Tracker.
func New(params Params) *Tracker {
	t := &Tracker{
		casemap:  params.Casemap,
		sender:   params.Sender,
		timer:    params.Timer,
		prefixes: params.Prefixes,
		delay:    params.ExpireDelay,
		self:     params.Nick,
	}
	if t.casemap == nil {
		t.casemap = strings.ToLower
	}
	if t.prefixes == nil {
		t.prefixes = defaultPrefixes{}
	}
	if t.delay < 0 {
		t.delay = 0
	}
	if params.Logger != nil {
		t.log = params.Logger.With().Str("component", "tracker").Logger()
	} else {
		t.log = zerolog.Nop()
	}
	t.init()
	return t
}

func (t *Tracker) init() {
	t.uhnames = false
	t.nicks = map[string]Key{}
	t.users = map[Key]*record{}
	t.channels = map[string]*channel{}
	t.evictions = map[Key]*eviction{}
	t.watched = map[string]struct{}{}
	t.whoReqs = map[string]struct{}{}
}

// Reset forgets everything and cancels pending evictions.  Keys are never
// reused across a reset.
func (t *Tracker) Reset() {
	for _, e := range t.evictions {
		e.timer.Stop()
	}
	t.init()
}

// Nick returns our own nickname.
func (t *Tracker) Nick() string {
	return t.self
}

func (t *Tracker) isMe(nick string) bool {
	return t.self != "" && t.casemap(t.self) == t.casemap(nick)
}

func (t *Tracker) send(line string) {
	if t.sender == nil {
		return
	}
	t.sender.SendRaw(line)
}

// Users returns the nicknames of every known user, sorted.
func (t *Tracker) Users() []string {
	users := make([]string, 0, len(t.users))
	for _, r := range t.users {
		users = append(users, r.nick)
	}
	sort.Strings(users)
	return users
}
