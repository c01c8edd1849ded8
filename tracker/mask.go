package tracker

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Matcher matches nick!ident@host strings against a mask.
type Matcher struct {
	mask string
	re   *regexp.Regexp
}

// CompileMask compiles an IRC mask where '*' matches any run of characters and
// '?' matches exactly one.  Characters are UTF-8 code points: '?' matches a
// multi-byte character as a whole, and each invalid byte on its own.  A mask without '!' is taken as a nickname
// ("nick!*@*"), a mask without '@' gets "@*" appended.
func CompileMask(mask string) *Matcher {
	if strings.IndexByte(mask, '!') < 0 {
		mask += "!*@*"
	} else if strings.IndexByte(mask, '@') < 0 {
		mask += "@*"
	}

	var expr strings.Builder
	expr.Grow(len(mask) + 8)
	expr.WriteString(`(?s)^`)
	for _, r := range mask {
		switch r {
		case '*':
			expr.WriteString(`.*`)
		case '?':
			expr.WriteString(`.`)
		default:
			expr.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	expr.WriteString(`$`)

	return &Matcher{
		mask: mask,
		re:   regexp.MustCompile(expr.String()),
	}
}

// Match reports whether the whole of s matches the mask.
func (m *Matcher) Match(s string) bool {
	return m.re.MatchString(s)
}

func (m *Matcher) String() string {
	return m.mask
}

// Search returns the nick!ident@host of the users matching mask, sorted.  If
// channel is not empty, only its members are considered.  Unknown idents and
// hosts are matched as empty strings.
func (t *Tracker) Search(mask, channel string) ([]string, error) {
	m := CompileMask(t.casemap(mask))

	var results []string
	match := func(r *record) {
		full := r.full()
		if m.Match(t.casemap(full)) {
			results = append(results, full)
		}
	}

	if channel != "" {
		c, ok := t.channel(channel)
		if !ok {
			return nil, fmt.Errorf("not on channel %q: %w", channel, ErrNotFound)
		}
		for key := range c.Members {
			match(t.users[key])
		}
	} else {
		for _, r := range t.users {
			match(r)
		}
	}

	sort.Strings(results)
	return results, nil
}
