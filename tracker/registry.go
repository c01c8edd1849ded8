package tracker

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies one user entry of the registry.  Keys are allocated from a
// monotonic sequence and never reused; zero is never a valid key.
type Key uint64

type record struct {
	nick   string // display nickname.
	nickCf string // casemapped nickname, the key of Tracker.nicks.
	ident  string // "" until the identity is known.
	host   string
	online bool
}

// partial reports whether only the nickname of the user is known, which is the
// case for users seen in a NAMES reply without userhost-in-names.
func (r *record) partial() bool {
	return r.ident == ""
}

// mask is the nick!ident@host of the user, with wildcards in place of
// unknown parts.
func (r *record) mask() string {
	if r.partial() {
		return r.nick + "!*@*"
	}
	return r.nick + "!" + r.ident + "@" + r.host
}

// full is the nick!ident@host of the user, with unknown parts left empty.
func (r *record) full() string {
	return r.nick + "!" + r.ident + "@" + r.host
}

// nickOf returns the nickname part of a "nick!ident@host" string.
func nickOf(s string) string {
	if i := strings.IndexAny(s, "!@"); i >= 0 {
		return s[:i]
	}
	return s
}

// splitMask splits a "nick!ident@host" string.  Missing parts are empty.
func splitMask(s string) (nick, ident, host string) {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		host = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '!'); i >= 0 {
		ident = s[i+1:]
		s = s[:i]
	}
	nick = s
	return
}

func (t *Tracker) allocate(nick, nickCf, ident, host string) Key {
	t.seq++
	key := t.seq
	t.nicks[nickCf] = key
	t.users[key] = &record{
		nick:   nick,
		nickCf: nickCf,
		ident:  ident,
		host:   host,
		online: true,
	}
	return key
}

// UpsertIdentity records a sighting of nick with the given identity and
// returns its key.  An empty ident means the identity is unknown, in which case
// host is ignored.
//
// Partial records are completed in place.  When the stored identity is
// complete and differs from the given one, the nickname is now used by someone
// else: the old key is destroyed and a new one is allocated.
func (t *Tracker) UpsertIdentity(nick, ident, host string) Key {
	if ident == "" {
		host = ""
	}
	nickCf := t.casemap(nick)

	key, ok := t.nicks[nickCf]
	if !ok {
		return t.allocate(nick, nickCf, ident, host)
	}

	t.cancelEviction(key)
	r := t.users[key]
	r.online = true

	if r.partial() {
		r.nick = nick
		r.ident = ident
		r.host = host
		return key
	}
	if ident == "" {
		return key
	}
	if r.ident == ident && r.host == host {
		r.nick = nick
		return key
	}

	t.log.Debug().
		Str("nick", nick).
		Str("old", r.mask()).
		Str("new", nick+"!"+ident+"@"+host).
		Uint64("key", uint64(key)).
		Msg("identity changed, rotating key")
	t.destroyKey(key)
	return t.allocate(nick, nickCf, ident, host)
}

// RenameKey moves the entry of oldNick to newNick.  Another user previously
// known as newNick is forgotten first.
func (t *Tracker) RenameKey(oldNick, newNick string) {
	if t.isMe(oldNick) {
		t.self = newNick
	}

	oldCf := t.casemap(oldNick)
	key, ok := t.nicks[oldCf]
	if !ok {
		return
	}

	newCf := t.casemap(newNick)
	if other, ok := t.nicks[newCf]; ok && other != key {
		t.destroyKey(other)
	}

	delete(t.nicks, oldCf)
	t.nicks[newCf] = key
	r := t.users[key]
	r.nick = newNick
	r.nickCf = newCf
}

// ResolveKey returns the key of the given nickname.  A full nick!ident@host
// string may be given, in which case only the nickname is used.
func (t *Tracker) ResolveKey(nick string) (Key, error) {
	key, ok := t.nicks[t.casemap(nickOf(nick))]
	if !ok {
		return 0, fmt.Errorf("no such user %q: %w", nick, ErrNotFound)
	}
	return key, nil
}

func (t *Tracker) record(key Key) (*record, error) {
	r, ok := t.users[key]
	if !ok {
		return nil, fmt.Errorf("no such token %d: %w", key, ErrNotFound)
	}
	return r, nil
}

// destroyKey removes every trace of the given key.
func (t *Tracker) destroyKey(key Key) {
	r, ok := t.users[key]
	if !ok {
		return
	}
	t.cancelEviction(key)
	if t.nicks[r.nickCf] == key {
		delete(t.nicks, r.nickCf)
	}
	delete(t.users, key)
	for _, c := range t.channels {
		delete(c.Members, key)
	}
}

// Field is a piece of information about a user.
type Field int

const (
	FieldNick  Field = iota // nickname (string).
	FieldIdent              // ident, "" if unknown (string).
	FieldHost               // hostname, "" if unknown (string).
	FieldMask               // nick!ident@host, with wildcards for unknown parts (string).
	FieldIsOn               // whether the user is still connected (bool).
)

var fieldNames = []string{"nick", "ident", "host", "mask", "ison"}

// ParseField returns the field of the given case-insensitive name.
func ParseField(name string) (Field, error) {
	name = strings.ToLower(name)
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("no such information %q: %w", name, ErrInvalidValue)
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Info returns the given field about a user.  ref is either a Token, a Key or
// a nickname.
//
// It returns ErrNotFound if the user is unknown and ErrInvalidValue for
// unsupported references and fields.
func (t *Tracker) Info(ref interface{}, field Field) (interface{}, error) {
	var key Key
	switch ref := ref.(type) {
	case Token:
		if ref.t != t {
			return nil, fmt.Errorf("token of another tracker: %w", ErrInvalidValue)
		}
		key = ref.key
	case Key:
		key = ref
	case string:
		var err error
		key, err = t.ResolveKey(ref)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cannot resolve %T: %w", ref, ErrInvalidValue)
	}
	return t.field(key, field)
}

func (t *Tracker) field(key Key, field Field) (interface{}, error) {
	if field < FieldNick || FieldIsOn < field {
		return nil, fmt.Errorf("no such information %v: %w", field, ErrInvalidValue)
	}
	r, err := t.record(key)
	if err != nil {
		return nil, err
	}
	switch field {
	case FieldNick:
		return r.nick, nil
	case FieldIdent:
		return r.ident, nil
	case FieldHost:
		return r.host, nil
	case FieldMask:
		return r.mask(), nil
	default:
		return r.online, nil
	}
}

// Masks returns the nick!ident@host of every known user, sorted.
func (t *Tracker) Masks() []string {
	masks := make([]string, 0, len(t.users))
	for _, r := range t.users {
		masks = append(masks, r.mask())
	}
	sort.Strings(masks)
	return masks
}
