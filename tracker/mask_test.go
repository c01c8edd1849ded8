package tracker

import (
	"errors"
	"testing"
)

func assertMatch(t *testing.T, mask, s string, expected bool) {
	t.Helper()
	if actual := CompileMask(mask).Match(s); actual != expected {
		t.Errorf("%q against %q: expected %v, got %v", mask, s, expected, actual)
	}
}

func TestCompileMask(t *testing.T) {
	assertMatch(t, "alice!*@*", "alice!anyident@anyhost", true)
	assertMatch(t, "alice!*@*", "alicia!anyident@anyhost", false)

	assertMatch(t, "a?c!x@y", "abc!x@y", true)
	assertMatch(t, "a?c!x@y", "axc!x@y", true)
	assertMatch(t, "a?c!x@y", "ac!x@y", false)
	assertMatch(t, "a?c!x@y", "abbc!x@y", false)

	// '?' stands for one character, not one byte.
	assertMatch(t, "a?c!x@y", "a€c!x@y", true)
	assertMatch(t, "a??c!x@y", "a€c!x@y", false)
	assertMatch(t, "a?c!x@y", "a\xe2\x82c!x@y", false)

	// Defaults for incomplete masks.
	assertMatch(t, "alice", "alice!a@h", true)
	assertMatch(t, "alice", "alice!@", true)
	assertMatch(t, "alice!a", "alice!a@h", true)
	assertMatch(t, "alice!a", "alice!b@h", false)

	// Anchoring and metacharacters.
	assertMatch(t, "lic", "alice!a@h", false)
	assertMatch(t, "*lic*", "alice!a@h", true)
	assertMatch(t, "[b]ot!*@*", "[b]ot!x@y", true)
	assertMatch(t, "[b]ot!*@*", "bot!x@y", false)
	assertMatch(t, "a.c", "abc!x@y", false)
	assertMatch(t, "*!*@*.example.org", "bob!b@host.example.org", true)
	assertMatch(t, "*!*@*.example.org", "bob!b@host.example.com", false)

	if s := CompileMask("alice").String(); s != "alice!*@*" {
		t.Errorf("expected completed mask \"alice!*@*\", got %q", s)
	}
}

func TestSearch(t *testing.T) {
	tr, _, _ := newTestTracker(0)
	a := tr.UpsertIdentity("Alice", "a", "home.example.org")
	b := tr.UpsertIdentity("bob", "b", "work.example.com")
	tr.UpsertIdentity("carol", "", "")
	tr.join("#c", a, "")
	tr.join("#d", b, "")

	results, err := tr.Search("*!*@*.example.*", "")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	assertStrings(t, "search", results, []string{"Alice!a@home.example.org", "bob!b@work.example.com"})

	results, _ = tr.Search("*!*@*.example.*", "#c")
	assertStrings(t, "search on #c", results, []string{"Alice!a@home.example.org"})

	results, _ = tr.Search("alice", "")
	assertStrings(t, "casemapped search", results, []string{"Alice!a@home.example.org"})

	// Unknown identities are matched as empty strings, not as wildcards.
	results, _ = tr.Search("carol!*@*", "")
	assertStrings(t, "partial record", results, []string{"carol!@"})
	results, _ = tr.Search("carol!?*@*", "")
	assertStrings(t, "partial record with ident", results, nil)

	if _, err := tr.Search("*", "#unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
