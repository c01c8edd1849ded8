package irc

import (
	"strings"

	"git.sr.ht/~taiite/ircwatch/tracker"
)

// SupportedCapabilities is the set of capabilities requested by the session.
// Both change the shape of NAMES replies.
var SupportedCapabilities = map[string]struct{}{
	"multi-prefix":      {},
	"userhost-in-names": {},
}

// SessionParams defines how to connect to an IRC server.
type SessionParams struct {
	Nickname string
	Username string
	RealName string
	Password string // server password, sent with PASS.

	Channels []string // channels joined once connected.
	Watch    []string // nicknames followed through MONITOR or WATCH.
}

// Session translates the messages of an IRC connection into tracker events.
//
// It is not safe for concurrent use.  Outgoing messages are pushed to the out
// channel given to NewSession, which Close closes.
type Session struct {
	out        chan<- Message
	closed     bool
	registered bool
	ready      bool // whether the end of the MOTD has been received.

	nick     string
	nickCf   string // casemapped nickname.
	user     string
	real     string
	channels []string
	watch    []string

	availableCaps map[string]string
	enabledCaps   map[string]struct{}
	capsPending   bool // whether CAP END is still to be sent.

	features *Features
}

// NewSession starts the registration on out.
func NewSession(out chan<- Message, params SessionParams) *Session {
	s := &Session{
		out:           out,
		nick:          params.Nickname,
		user:          params.Username,
		real:          params.RealName,
		channels:      params.Channels,
		watch:         params.Watch,
		availableCaps: map[string]string{},
		enabledCaps:   map[string]struct{}{},
		capsPending:   true,
		features:      NewFeatures(),
	}
	s.nickCf = s.features.Casemap(s.nick)

	s.send(NewMessage("CAP", "LS", "302"))
	if params.Password != "" {
		s.send(NewMessage("PASS", params.Password))
	}
	s.send(NewMessage("NICK", s.nick))
	s.send(NewMessage("USER", s.user, "0", "*", s.real))

	return s
}

func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

func (s *Session) send(msg Message) {
	if s.closed {
		return
	}
	s.out <- msg
}

// HasCapability reports whether the given capability has been negociated
// successfully.
func (s *Session) HasCapability(capability string) bool {
	_, ok := s.enabledCaps[capability]
	return ok
}

func (s *Session) Nick() string {
	return s.nick
}

func (s *Session) IsMe(nick string) bool {
	return s.nickCf == s.features.Casemap(nick)
}

// Registered reports whether the server accepted the registration.
func (s *Session) Registered() bool {
	return s.registered
}

func (s *Session) Features() *Features {
	return s.features
}

func (s *Session) Casemap(name string) string {
	return s.features.Casemap(name)
}

// SendRaw sends a raw IRC line.  Lines that cannot be parsed are dropped.
func (s *Session) SendRaw(raw string) {
	msg, err := ParseMessage(raw)
	if err != nil {
		return
	}
	s.send(msg)
}

func (s *Session) Join(channel string) {
	s.send(NewMessage("JOIN", channel))
}

func (s *Session) Part(channel, reason string) {
	if reason == "" {
		s.send(NewMessage("PART", channel))
	} else {
		s.send(NewMessage("PART", channel, reason))
	}
}

func (s *Session) Quit(reason string) {
	s.send(NewMessage("QUIT", reason))
}

// HandleMessage answers the protocol messages that need it, and returns what
// happened to the users and channels we know about.
func (s *Session) HandleMessage(msg Message) []tracker.Event {
	if err := msg.Validate(); err != nil {
		return nil
	}

	switch msg.Command {
	case "CAP":
		s.handleCap(msg)
	case errNicknameinuse:
		if !s.registered {
			s.nick += "_"
			s.nickCf = s.features.Casemap(s.nick)
			s.send(NewMessage("NICK", s.nick))
		}
	case rplWelcome:
		s.nick = msg.Params[0]
		s.nickCf = s.features.Casemap(s.nick)
		s.registered = true
		s.endCap()
		return []tracker.Event{tracker.Registered{Nick: s.nick}}
	case rplIsupport:
		s.features.Update(msg.Params[1 : len(msg.Params)-1])
		s.nickCf = s.features.Casemap(s.nick)
	case rplEndofmotd, errNomotd:
		if s.ready {
			break
		}
		s.ready = true
		return s.greet()
	case "JOIN":
		nick, user, host := ParseMask(msg.Prefix)
		var evs []tracker.Event
		for _, channel := range strings.Split(msg.Params[0], ",") {
			evs = append(evs, tracker.Join{
				Nick:    nick,
				Ident:   user,
				Host:    host,
				Channel: channel,
			})
		}
		return evs
	case "PART":
		nick, _, _ := ParseMask(msg.Prefix)
		var evs []tracker.Event
		for _, channel := range strings.Split(msg.Params[0], ",") {
			evs = append(evs, tracker.Departure{
				Nick:    nick,
				Channel: channel,
				Reason:  tracker.ReasonPart,
			})
		}
		return evs
	case "KICK":
		return []tracker.Event{tracker.Departure{
			Nick:    msg.Params[1],
			Channel: msg.Params[0],
			Reason:  tracker.ReasonKick,
		}}
	case "QUIT":
		nick, _, _ := ParseMask(msg.Prefix)
		return []tracker.Event{tracker.Departure{
			Nick:   nick,
			Reason: tracker.ReasonQuit,
		}}
	case "NICK":
		nick, _, _ := ParseMask(msg.Prefix)
		if s.IsMe(nick) {
			s.nick = msg.Params[0]
			s.nickCf = s.features.Casemap(s.nick)
		}
		return []tracker.Event{tracker.NickChange{
			Old: nick,
			New: msg.Params[0],
		}}
	case "MODE":
		return s.handleMode(msg)
	case rplNamreply:
		return []tracker.Event{tracker.Roster{
			Channel: msg.Params[2],
			Tokens:  strings.Fields(msg.Params[3]),
		}}
	case rplWhoreply:
		return []tracker.Event{tracker.Who{
			Nick:  msg.Params[5],
			Ident: msg.Params[2],
			Host:  msg.Params[3],
		}}
	case rplEndofwho:
		return []tracker.Event{tracker.WhoEnd{Target: msg.Params[1]}}
	case rplTryagain:
		if strings.EqualFold(msg.Params[1], "WHO") {
			return []tracker.Event{tracker.WhoEnd{}}
		}
	case rplLogon, rplNowon:
		return []tracker.Event{tracker.Notify{
			Nick:  msg.Params[1],
			Ident: msg.Params[2],
			Host:  msg.Params[3],
		}}
	case rplLogoff, rplNowoff:
		return []tracker.Event{tracker.Unnotify{Nick: msg.Params[1]}}
	case rplMononline:
		var evs []tracker.Event
		for _, target := range strings.Split(msg.Params[1], ",") {
			nick, user, host := ParseMask(target)
			if nick == "" {
				continue
			}
			evs = append(evs, tracker.Notify{Nick: nick, Ident: user, Host: host})
		}
		return evs
	case rplMonoffline:
		var evs []tracker.Event
		for _, target := range strings.Split(msg.Params[1], ",") {
			nick, _, _ := ParseMask(target)
			if nick == "" {
				continue
			}
			evs = append(evs, tracker.Unnotify{Nick: nick})
		}
		return evs
	case "PING":
		s.send(NewMessage("PONG", msg.Params[0]))
	case "ERROR":
		s.Close()
	}
	return nil
}

func (s *Session) handleCap(msg Message) {
	if len(msg.Params) < 3 {
		return
	}
	switch msg.Params[1] {
	case "LS":
		var willContinue bool
		var ls string

		if msg.Params[2] == "*" && len(msg.Params) > 3 {
			willContinue = true
			ls = msg.Params[3]
		} else {
			willContinue = false
			ls = msg.Params[2]
		}

		for _, c := range strings.Fields(ls) {
			kv := strings.SplitN(c, "=", 2)
			if len(kv) > 1 {
				s.availableCaps[kv[0]] = kv[1]
			} else {
				s.availableCaps[kv[0]] = ""
			}
		}

		if willContinue || s.registered {
			return
		}
		var req []string
		for c := range s.availableCaps {
			if _, ok := SupportedCapabilities[c]; ok {
				req = append(req, c)
			}
		}
		if len(req) == 0 {
			s.endCap()
			return
		}
		s.send(NewMessage("CAP", "REQ", strings.Join(req, " ")))
	case "ACK":
		for _, c := range strings.Fields(msg.Params[2]) {
			if strings.HasPrefix(c, "-") {
				delete(s.enabledCaps, c[1:])
			} else {
				s.enabledCaps[c] = struct{}{}
			}
		}
		s.endCap()
	case "NAK":
		s.endCap()
	}
}

func (s *Session) endCap() {
	if !s.capsPending {
		return
	}
	s.capsPending = false
	if !s.registered {
		s.send(NewMessage("CAP", "END"))
	}
}

// greet reports the NAMES extensions in use and subscribes to the watched
// nicknames.  The configured channels are joined by JoinChannels, once the
// extensions have been requested.
func (s *Session) greet() []tracker.Event {
	caps := tracker.Capabilities{
		ExtendedNames:   s.HasCapability("multi-prefix"),
		UserhostInNames: s.HasCapability("userhost-in-names"),
	}
	if caps.ExtendedNames || caps.UserhostInNames {
		caps.Negotiated = true
	} else {
		caps.ExtendedNames = s.features.HasNamesX()
		caps.UserhostInNames = s.features.HasUHNames()
	}

	if len(s.watch) != 0 {
		if s.features.HasMonitor() {
			s.send(NewMessage("MONITOR", "+", strings.Join(s.watch, ",")))
		} else if s.features.HasWatch() {
			params := make([]string, len(s.watch))
			for i, nick := range s.watch {
				params[i] = "+" + nick
			}
			s.send(NewMessage("WATCH", params...))
		}
	}

	return []tracker.Event{caps}
}

// JoinChannels joins the channels given in SessionParams.  It must be called
// after the Capabilities event has been handled, so that the NAMES replies of
// these channels use the requested extensions.
func (s *Session) JoinChannels() {
	for _, channel := range s.channels {
		s.Join(channel)
	}
}

func (s *Session) handleMode(msg Message) []tracker.Event {
	channel := msg.Params[0]
	if !s.features.IsChannel(channel) {
		return nil
	}

	// Changes parsed before a missing parameter are kept.
	changes, _ := ParseChannelMode(msg.Params[1], msg.Params[2:], s.features.ChanModes(), s.features.PrefixModes())

	var evs []tracker.Event
	for _, change := range changes {
		if strings.IndexByte(s.features.PrefixModes(), change.Mode) < 0 {
			continue
		}
		if change.Enable {
			evs = append(evs, tracker.ModeGiven{
				Channel: channel,
				Target:  change.Param,
				Mode:    change.Mode,
			})
		} else {
			evs = append(evs, tracker.ModeTaken{
				Channel: channel,
				Target:  change.Param,
				Mode:    change.Mode,
			})
		}
	}
	return evs
}
