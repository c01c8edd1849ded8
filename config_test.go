package ircwatch

import (
	"strings"
	"testing"
	"time"

	"git.sr.ht/~taiite/ircwatch/tracker"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(`
address irc.example.org
nickname watcher
realname "The Watcher"
password hunter2
channel "#a" "#b"
channel "#c"
watch alice bob
expire-delay 90s
log-level debug
flood-rate 0.5
flood-burst 3
tls false
debug
`))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if cfg.Addr != "irc.example.org" || cfg.Nick != "watcher" || cfg.Password != "hunter2" {
		t.Errorf("unexpected connection settings: %+v", cfg)
	}
	if cfg.User != "watcher" {
		t.Errorf("expected username to default to the nickname, got %q", cfg.User)
	}
	if cfg.Real != "The Watcher" {
		t.Errorf("expected realname \"The Watcher\", got %q", cfg.Real)
	}
	if strings.Join(cfg.Channels, ",") != "#a,#b,#c" {
		t.Errorf("expected channels #a #b #c, got %q", cfg.Channels)
	}
	if strings.Join(cfg.Watch, ",") != "alice,bob" {
		t.Errorf("expected watched nicknames alice bob, got %q", cfg.Watch)
	}
	if cfg.ExpireDelay != 90*time.Second {
		t.Errorf("expected an expire delay of 90s, got %v", cfg.ExpireDelay)
	}
	if cfg.LogLevel != "debug" || !cfg.Debug || cfg.TLS {
		t.Errorf("unexpected flags: %+v", cfg)
	}
	if cfg.FloodRate != 0.5 || cfg.FloodBurst != 3 {
		t.Errorf("expected flood settings 0.5/3, got %v/%d", cfg.FloodRate, cfg.FloodBurst)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader("address irc.example.org\nnickname w\n"))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !cfg.TLS {
		t.Errorf("expected TLS by default")
	}
	if cfg.ExpireDelay != tracker.DefaultExpireDelay {
		t.Errorf("expected the default expire delay, got %v", cfg.ExpireDelay)
	}
	if cfg.Real != "w" || cfg.User != "w" {
		t.Errorf("expected username and realname to default to the nickname")
	}
	if cfg.FloodRate <= 0 || cfg.FloodBurst < 1 {
		t.Errorf("expected flood protection by default")
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, input := range []string{
		"nickname w\n",
		"address irc.example.org\n",
		"address irc.example.org\nnickname w\nfrobnicate yes\n",
		"address irc.example.org\nnickname w x\n",
		"address irc.example.org\nnickname w\nchannel\n",
		"address irc.example.org\nnickname w\nexpire-delay soon\n",
		"address irc.example.org\nnickname w\ntls maybe\n",
		"address irc.example.org\nnickname w\nflood-burst 0\n",
	} {
		if _, err := ParseConfig(strings.NewReader(input)); err == nil {
			t.Errorf("%q: expected an error", input)
		}
	}
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"0", 0},
		{"30", 30 * time.Second},
		{"2m", 2 * time.Minute},
		{"1m30s", 90 * time.Second},
	}
	for _, test := range tests {
		d, err := parseDelay(test.input)
		if err != nil {
			t.Errorf("%q: unexpected error %v", test.input, err)
			continue
		}
		if d != test.expected {
			t.Errorf("%q: expected %v, got %v", test.input, test.expected, d)
		}
	}
}
