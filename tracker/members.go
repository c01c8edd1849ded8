package tracker

import (
	"fmt"
	"sort"
	"strings"
)

// channel is a channel we are on.
type channel struct {
	Name    string         // the name of the channel.
	Members map[Key]string // members associated with the mode letters they hold.
}

func (t *Tracker) channel(name string) (*channel, bool) {
	c, ok := t.channels[t.casemap(name)]
	return c, ok
}

// track returns the given channel, starting to track it if needed.
func (t *Tracker) track(name string) *channel {
	nameCf := t.casemap(name)
	c, ok := t.channels[nameCf]
	if !ok {
		c = &channel{
			Name:    name,
			Members: map[Key]string{},
		}
		t.channels[nameCf] = c
	}
	return c
}

// untrack forgets the given channel, after we left it.
func (t *Tracker) untrack(name string) {
	nameCf := t.casemap(name)
	c, ok := t.channels[nameCf]
	if !ok {
		return
	}
	delete(t.channels, nameCf)
	delete(t.whoReqs, nameCf)
	for key := range c.Members {
		t.departed(key)
	}
}

// join sets the modes of key in the given channel.
func (t *Tracker) join(channel string, key Key, modes string) {
	r, ok := t.users[key]
	if !ok {
		return
	}
	c := t.track(channel)
	c.Members[key] = addModes("", modes)
	r.online = true
	t.cancelEviction(key)
}

// leave removes key from the given channel.
func (t *Tracker) leave(channel string, key Key) {
	c, ok := t.channel(channel)
	if !ok {
		return
	}
	if _, ok := c.Members[key]; !ok {
		return
	}
	delete(c.Members, key)
	t.departed(key)
}

// leaveAll removes key from all channels.
func (t *Tracker) leaveAll(key Key) {
	for _, c := range t.channels {
		delete(c.Members, key)
	}
	t.departed(key)
}

func (t *Tracker) addMode(channel string, key Key, mode byte) {
	c, ok := t.channel(channel)
	if !ok {
		return
	}
	if modes, ok := c.Members[key]; ok {
		c.Members[key] = addModes(modes, string(mode))
	}
}

func (t *Tracker) removeMode(channel string, key Key, mode byte) {
	c, ok := t.channel(channel)
	if !ok {
		return
	}
	if modes, ok := c.Members[key]; ok {
		if i := strings.IndexByte(modes, mode); i >= 0 {
			c.Members[key] = modes[:i] + modes[i+1:]
		}
	}
}

// addModes returns the union of two sets of mode letters.
func addModes(modes, added string) string {
	for i := 0; i < len(added); i++ {
		if strings.IndexByte(modes, added[i]) < 0 {
			modes += added[i : i+1]
		}
	}
	return modes
}

func (t *Tracker) commonChannels(key Key) []string {
	var channels []string
	for _, c := range t.channels {
		if _, ok := c.Members[key]; ok {
			channels = append(channels, c.Name)
		}
	}
	sort.Strings(channels)
	return channels
}

// CommonChannels returns the channels we share with the given user.
func (t *Tracker) CommonChannels(nick string) ([]string, error) {
	key, err := t.ResolveKey(nick)
	if err != nil {
		return nil, err
	}
	return t.commonChannels(key), nil
}

// IsOn reports whether nick is on the given channel.  With an empty nick, it
// reports whether we are on the channel.
func (t *Tracker) IsOn(channel, nick string) bool {
	c, ok := t.channel(channel)
	if !ok {
		return false
	}
	if nick == "" {
		return true
	}
	key, err := t.ResolveKey(nick)
	if err != nil {
		return false
	}
	_, ok = c.Members[key]
	return ok
}

// Privileges returns the mode letters nick holds on the given channel.
func (t *Tracker) Privileges(channel, nick string) (string, error) {
	c, ok := t.channel(channel)
	if !ok {
		return "", fmt.Errorf("no such channel %q: %w", channel, ErrNotFound)
	}
	key, err := t.ResolveKey(nick)
	if err != nil {
		return "", err
	}
	modes, ok := c.Members[key]
	if !ok {
		return "", fmt.Errorf("%q is not on %q: %w", nick, channel, ErrNotFound)
	}
	return modes, nil
}

// MembersByModes returns the nicknames of the members of channel that hold
// all of the given modes, or with negate, none of them.
//
// With no modes, it returns the members that hold at least one mode, or with
// negate, those that hold none.
func (t *Tracker) MembersByModes(channel, modes string, negate bool) ([]string, error) {
	c, ok := t.channel(channel)
	if !ok {
		return nil, fmt.Errorf("no such channel %q: %w", channel, ErrNotFound)
	}
	modes = addModes("", modes)

	var nicks []string
	for key, held := range c.Members {
		var match bool
		if modes == "" {
			match = (held != "") != negate
		} else {
			common := 0
			for i := 0; i < len(modes); i++ {
				if strings.IndexByte(held, modes[i]) >= 0 {
					common++
				}
			}
			if negate {
				match = common == 0
			} else {
				match = common == len(modes)
			}
		}
		if match {
			nicks = append(nicks, t.users[key].nick)
		}
	}
	sort.Strings(nicks)
	return nicks, nil
}
