package tracker

import (
	"errors"
	"testing"
)

func TestHandleJoinAndDepartures(t *testing.T) {
	tr, clock, _ := newTestTracker(DefaultExpireDelay)

	tr.Handle(Join{Nick: "me", Ident: "m", Host: "h", Channel: "#a"})
	tr.Handle(Join{Nick: "me", Ident: "m", Host: "h", Channel: "#b"})
	tr.Handle(Join{Nick: "alice", Ident: "a", Host: "h", Channel: "#a"})
	tr.Handle(Join{Nick: "alice", Ident: "a", Host: "h", Channel: "#b"})
	tr.Handle(Join{Nick: "bob", Ident: "b", Host: "h", Channel: "#a"})

	tr.Handle(Departure{Nick: "alice", Channel: "#a", Reason: ReasonPart})
	if tr.IsOn("#a", "alice") || !tr.IsOn("#b", "alice") {
		t.Errorf("expected alice to only be on #b")
	}

	tr.Handle(Departure{Nick: "alice", Channel: "#b", Reason: ReasonKick})
	if on, _ := tr.Info("alice", FieldIsOn); on != false {
		t.Errorf("expected alice to be marked offline")
	}

	tr.Handle(Departure{Nick: "bob", Reason: ReasonQuit})
	if tr.IsOn("#a", "bob") {
		t.Errorf("expected bob to have left #a")
	}

	// Departures of unknown users are ignored.
	tr.Handle(Departure{Nick: "nobody", Channel: "#a", Reason: ReasonPart})

	clock.Advance(DefaultExpireDelay)
	assertStrings(t, "users", tr.Users(), []string{"me"})
	assertIndex(t, tr)
}

func TestHandleSelfPart(t *testing.T) {
	tr, _, _ := newTestTracker(0)

	tr.Handle(Registered{Nick: "Me"})
	tr.Handle(Join{Nick: "Me", Channel: "#a"})
	tr.Handle(Roster{Channel: "#a", Tokens: []string{"@Me", "alice", "bob"}})
	tr.Handle(Join{Nick: "Me", Channel: "#b"})
	tr.Handle(Roster{Channel: "#b", Tokens: []string{"Me", "alice"}})

	tr.Handle(Departure{Nick: "me", Channel: "#a", Reason: ReasonPart})
	if tr.IsOn("#a", "") {
		t.Errorf("expected #a to be forgotten")
	}
	assertStrings(t, "users", tr.Users(), []string{"Me", "alice"})

	tr.Handle(Departure{Nick: "ME", Channel: "#b", Reason: ReasonKick})
	if tr.IsOn("#b", "") {
		t.Errorf("expected #b to be forgotten")
	}
	if len(tr.Users()) != 0 {
		t.Errorf("expected no user left, got %q", tr.Users())
	}
	if _, err := tr.MembersByModes("#b", "", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHandleNickAndModes(t *testing.T) {
	tr, _, _ := newTestTracker(0)
	tr.Handle(Join{Nick: "alice", Ident: "a", Host: "h", Channel: "#c"})
	tok, err := tr.StartTracking("alice")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	tr.Handle(ModeGiven{Channel: "#c", Target: "alice", Mode: 'o'})
	tr.Handle(ModeGiven{Channel: "#c", Target: "nobody", Mode: 'o'})
	tr.Handle(NickChange{Old: "alice", New: "alicia"})
	ops, _ := tr.MembersByModes("#c", "o", false)
	assertStrings(t, "ops", ops, []string{"alicia"})

	tr.Handle(ModeTaken{Channel: "#c", Target: "alicia!a@h", Mode: 'o'})
	ops, _ = tr.MembersByModes("#c", "o", false)
	assertStrings(t, "ops", ops, nil)

	if nick := tok.String(); nick != "alicia" {
		t.Errorf("expected token to follow the nick change, got %q", nick)
	}
	if tr.Nick() != "me" {
		t.Errorf("expected own nick to be untouched, got %q", tr.Nick())
	}
	tr.Handle(NickChange{Old: "me", New: "me_"})
	if tr.Nick() != "me_" {
		t.Errorf("expected own nick to follow NICK, got %q", tr.Nick())
	}
}

func TestHandleNotify(t *testing.T) {
	tr, clock, _ := newTestTracker(DefaultExpireDelay)

	tr.Handle(Notify{Nick: "friend", Ident: "f", Host: "h"})
	clock.Advance(DefaultExpireDelay * 10)
	k := mustKey(t, tr, "friend")
	if on, _ := tr.Info(k, FieldIsOn); on != true {
		t.Errorf("expected a watched user to be online")
	}

	// Watched users are kept after leaving the channels we share.
	tr.Handle(Join{Nick: "friend", Ident: "f", Host: "h", Channel: "#c"})
	tr.Handle(Departure{Nick: "friend", Channel: "#c", Reason: ReasonPart})
	clock.Advance(DefaultExpireDelay)
	mustKey(t, tr, "friend")

	tr.Handle(Unnotify{Nick: "friend"})
	if on, _ := tr.Info(k, FieldIsOn); on != false {
		t.Errorf("expected the user to be offline")
	}
	clock.Advance(DefaultExpireDelay)
	assertNotFound(t, tr, "friend")

	// Unnotify for unknown users is harmless.
	tr.Handle(Unnotify{Nick: "ghost"})
}

func TestReasonString(t *testing.T) {
	for r, expected := range map[Reason]string{
		ReasonPart: "part",
		ReasonKick: "kick",
		ReasonQuit: "quit",
		Reason(9):  "unknown",
	} {
		if r.String() != expected {
			t.Errorf("expected %q, got %q", expected, r.String())
		}
	}
}
