package tracker

// Event is something that happened on the network and that the tracker cares
// about.  The set of events is closed: only the types of this package
// implement it.
type Event interface {
	isEvent()
}

// Reason tells why a user left a channel.
type Reason int

const (
	ReasonPart Reason = iota
	ReasonKick
	ReasonQuit // the user left all channels.
)

func (r Reason) String() string {
	switch r {
	case ReasonPart:
		return "part"
	case ReasonKick:
		return "kick"
	case ReasonQuit:
		return "quit"
	}
	return "unknown"
}

type (
	// Registered is sent once connected, with the nickname the server gave us.
	Registered struct {
		Nick string
	}

	NickChange struct {
		Old string
		New string
	}

	// Join is a user, possibly us, joining a channel.  Ident and Host are
	// empty when unknown.
	Join struct {
		Nick    string
		Ident   string
		Host    string
		Channel string
	}

	// Departure is a user leaving a channel.  Channel is empty for quits.
	Departure struct {
		Nick    string
		Channel string
		Reason  Reason
	}

	ModeGiven struct {
		Channel string
		Target  string
		Mode    byte
	}

	ModeTaken struct {
		Channel string
		Target  string
		Mode    byte
	}

	// Capabilities tells which NAMES extensions the server supports.
	// Negotiated is set when they were already enabled through CAP, in which
	// case no PROTOCTL is sent.
	Capabilities struct {
		ExtendedNames   bool // NAMESX: all prefixes of a member are sent.
		UserhostInNames bool // UHNAMES: members are sent as nick!ident@host.
		Negotiated      bool
	}

	// Roster is one line of a NAMES reply.
	Roster struct {
		Channel string
		Tokens  []string
	}

	// Who is one line of a WHO reply.
	Who struct {
		Nick  string
		Ident string
		Host  string
	}

	// WhoEnd is the end of a WHO reply.  An empty Target means the server
	// dropped our WHO requests without answering them.
	WhoEnd struct {
		Target string
	}

	// Notify reports a watched user as online (WATCH or MONITOR).  Ident and
	// Host are empty when unknown.
	Notify struct {
		Nick  string
		Ident string
		Host  string
	}

	// Unnotify reports a watched user as offline.
	Unnotify struct {
		Nick string
	}
)

func (Registered) isEvent()   {}
func (NickChange) isEvent()   {}
func (Join) isEvent()         {}
func (Departure) isEvent()    {}
func (ModeGiven) isEvent()    {}
func (ModeTaken) isEvent()    {}
func (Capabilities) isEvent() {}
func (Roster) isEvent()       {}
func (Who) isEvent()          {}
func (WhoEnd) isEvent()       {}
func (Notify) isEvent()       {}
func (Unnotify) isEvent()     {}

// Handle updates the registry according to the given event.
func (t *Tracker) Handle(ev Event) {
	switch ev := ev.(type) {
	case Registered:
		t.self = ev.Nick
	case NickChange:
		t.RenameKey(ev.Old, ev.New)
	case Join:
		if t.isMe(ev.Nick) {
			// a fresh roster follows.
			delete(t.whoReqs, t.casemap(ev.Channel))
		}
		key := t.UpsertIdentity(ev.Nick, ev.Ident, ev.Host)
		t.join(ev.Channel, key, "")
	case Departure:
		t.handleDeparture(ev)
	case ModeGiven:
		if key, err := t.ResolveKey(ev.Target); err == nil {
			t.addMode(ev.Channel, key, ev.Mode)
		}
	case ModeTaken:
		if key, err := t.ResolveKey(ev.Target); err == nil {
			t.removeMode(ev.Channel, key, ev.Mode)
		}
	case Capabilities:
		t.handleCapabilities(ev)
	case Roster:
		t.handleRoster(ev)
	case Who:
		t.handleWho(ev)
	case WhoEnd:
		t.handleWhoEnd(ev)
	case Notify:
		t.watched[t.casemap(ev.Nick)] = struct{}{}
		t.UpsertIdentity(ev.Nick, ev.Ident, ev.Host)
	case Unnotify:
		delete(t.watched, t.casemap(ev.Nick))
		if key, err := t.ResolveKey(ev.Nick); err == nil {
			t.departed(key)
		}
	}
}

func (t *Tracker) handleDeparture(ev Departure) {
	if ev.Reason != ReasonQuit && t.isMe(ev.Nick) {
		t.untrack(ev.Channel)
		return
	}

	key, err := t.ResolveKey(ev.Nick)
	if err != nil {
		return
	}
	if ev.Reason == ReasonQuit {
		delete(t.watched, t.casemap(ev.Nick))
		t.leaveAll(key)
	} else {
		t.leave(ev.Channel, key)
	}
}
