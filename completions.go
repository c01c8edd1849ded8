package ircwatch

import (
	"sort"
	"strings"
	"sync"

	"git.sr.ht/~taiite/ircwatch/irc"
)

// completer is a copy of the known nicknames and channels, refreshed by the
// event loop and read by the terminal goroutine.
type completer struct {
	mu      sync.Mutex
	casemap func(string) string
	names   []string
}

// refreshCompletions must run on the event loop.
func (app *App) refreshCompletions() {
	names := app.tracker.Users()
	if channels, err := app.tracker.CommonChannels(app.tracker.Nick()); err == nil {
		names = append(names, channels...)
	}
	sort.Strings(names)

	casemap := irc.CasemapRFC1459
	if app.s != nil {
		casemap = app.s.Features().CasemapFunc()
	}

	app.comp.mu.Lock()
	app.comp.casemap = casemap
	app.comp.names = names
	app.comp.mu.Unlock()
}

// Complete has the signature of golang.org/x/term's AutoCompleteCallback.  On
// tab, it completes the word under the cursor with a command name when it is
// the first one, or with a channel or a nickname otherwise.
//
// It may be called from any goroutine.
func (app *App) Complete(line string, pos int, key rune) (newLine string, newPos int, ok bool) {
	if key != '\t' {
		return
	}
	return app.completions(line, pos)
}

func (app *App) completions(line string, pos int) (newLine string, newPos int, ok bool) {
	if pos > len(line) {
		pos = len(line)
	}
	start := strings.LastIndexByte(line[:pos], ' ') + 1
	word := line[start:pos]
	if word == "" {
		return
	}

	var matches []string
	if strings.TrimLeft(line[:start], " ") == "" {
		slash := ""
		if strings.HasPrefix(word, "/") {
			slash = "/"
		}
		wordUp := strings.ToUpper(strings.TrimPrefix(word, "/"))
		for name := range commands {
			if strings.HasPrefix(name, wordUp) {
				matches = append(matches, slash+name)
			}
		}
	} else {
		app.comp.mu.Lock()
		casemap := app.comp.casemap
		if casemap == nil {
			casemap = irc.CasemapRFC1459
		}
		wordCf := casemap(word)
		for _, name := range app.comp.names {
			if strings.HasPrefix(casemap(name), wordCf) {
				matches = append(matches, name)
			}
		}
		app.comp.mu.Unlock()
	}
	if len(matches) == 0 {
		return
	}
	sort.Strings(matches)

	comp := matches[0]
	if len(matches) == 1 {
		comp += " "
	} else {
		for _, m := range matches[1:] {
			comp = commonPrefix(comp, m)
		}
		if len(comp) <= len(word) {
			return
		}
	}

	newLine = line[:start] + comp + line[pos:]
	return newLine, start + len(comp), true
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
