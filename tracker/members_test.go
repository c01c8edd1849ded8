package tracker

import (
	"errors"
	"testing"
)

func TestMembersByModes(t *testing.T) {
	tr, _, _ := newTestTracker(0)
	tr.join("#c", tr.UpsertIdentity("u1", "", ""), "o")
	tr.join("#c", tr.UpsertIdentity("u2", "", ""), "v")
	tr.join("#c", tr.UpsertIdentity("u3", "", ""), "")
	tr.join("#c", tr.UpsertIdentity("u4", "", ""), "ov")

	tests := []struct {
		modes    string
		negate   bool
		expected []string
	}{
		{"o", false, []string{"u1", "u4"}},
		{"ov", false, []string{"u4"}},
		{"o", true, []string{"u2", "u3"}},
		{"ov", true, []string{"u3"}},
		{"", false, []string{"u1", "u2", "u4"}},
		{"", true, []string{"u3"}},
		{"h", false, nil},
	}
	for _, test := range tests {
		actual, err := tr.MembersByModes("#c", test.modes, test.negate)
		if err != nil {
			t.Errorf("%q/%v: unexpected error %v", test.modes, test.negate, err)
			continue
		}
		assertStrings(t, test.modes, actual, test.expected)
	}

	if _, err := tr.MembersByModes("#unknown", "o", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown channel, got %v", err)
	}
}

func TestModeChanges(t *testing.T) {
	tr, _, _ := newTestTracker(0)
	k := tr.UpsertIdentity("alice", "", "")
	tr.join("#c", k, "")

	tr.addMode("#c", k, 'o')
	tr.addMode("#c", k, 'o')
	tr.addMode("#c", k, 'v')
	if modes, _ := tr.Privileges("#c", "alice"); modes != "ov" {
		t.Errorf("expected modes \"ov\", got %q", modes)
	}

	tr.removeMode("#c", k, 'h')
	tr.removeMode("#c", k, 'o')
	if modes, _ := tr.Privileges("#c", "alice"); modes != "v" {
		t.Errorf("expected modes \"v\", got %q", modes)
	}

	// Modes on channels the user is not on are ignored.
	tr.addMode("#other", k, 'o')
	tr.addMode("#c", Key(999), 'o')
	if tr.IsOn("#other", "") {
		t.Errorf("expected #other not to be tracked")
	}
	if _, err := tr.Privileges("#other", "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestJoinOverwritesModes(t *testing.T) {
	tr, _, _ := newTestTracker(0)
	k := tr.UpsertIdentity("alice", "", "")
	tr.join("#c", k, "oo")
	if modes, _ := tr.Privileges("#c", "alice"); modes != "o" {
		t.Errorf("expected duplicate modes to be merged, got %q", modes)
	}
	tr.join("#c", k, "v")
	if modes, _ := tr.Privileges("#c", "alice"); modes != "v" {
		t.Errorf("expected join to overwrite modes, got %q", modes)
	}
}

func TestIsOnAndCommonChannels(t *testing.T) {
	tr, _, _ := newTestTracker(DefaultExpireDelay)
	k := tr.UpsertIdentity("alice", "", "")
	tr.join("#a", k, "")
	tr.join("#B", k, "")

	if !tr.IsOn("#a", "") || !tr.IsOn("#b", "") {
		t.Errorf("expected #a and #b to be tracked")
	}
	if tr.IsOn("#c", "") {
		t.Errorf("expected #c not to be tracked")
	}
	if !tr.IsOn("#a", "ALICE") {
		t.Errorf("expected alice to be on #a")
	}
	if tr.IsOn("#a", "bob") {
		t.Errorf("expected unknown bob not to be on #a")
	}

	chans, err := tr.CommonChannels("alice")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	assertStrings(t, "common channels", chans, []string{"#B", "#a"})

	tr.leave("#a", k)
	chans, _ = tr.CommonChannels("alice")
	assertStrings(t, "common channels", chans, []string{"#B"})

	tr.leaveAll(k)
	chans, err = tr.CommonChannels("alice")
	if err != nil {
		t.Fatalf("expected alice to be kept during the grace period, got %v", err)
	}
	if len(chans) != 0 {
		t.Errorf("expected no common channel, got %q", chans)
	}
	if on, _ := tr.Info(k, FieldIsOn); on != false {
		t.Errorf("expected alice to be marked offline")
	}

	if _, err := tr.CommonChannels("bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
