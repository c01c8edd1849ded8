package irc

import (
	"errors"
	"strings"
)

func word(s string) (w, rest string) {
	split := strings.SplitN(s, " ", 2)

	if len(split) < 2 {
		w = split[0]
		rest = ""
	} else {
		w = split[0]
		rest = split[1]
	}

	return
}

func tagEscape(c rune) (escape rune) {
	switch c {
	case ':':
		escape = ';'
	case 's':
		escape = ' '
	case 'r':
		escape = '\r'
	case 'n':
		escape = '\n'
	default:
		escape = c
	}

	return
}

func unescapeTagValue(escaped string) (unescaped string) {
	var builder strings.Builder
	builder.Grow(len(escaped))
	escape := false

	for _, c := range escaped {
		if c == '\\' && !escape {
			escape = true
		} else {
			var cpp rune

			if escape {
				cpp = tagEscape(c)
			} else {
				cpp = c
			}

			builder.WriteRune(cpp)
			escape = false
		}
	}

	unescaped = builder.String()
	return
}

func parseTags(s string) (tags map[string]string) {
	s = s[1:]
	tags = map[string]string{}

	for _, item := range strings.Split(s, ";") {
		if item == "" || item == "=" || item == "+" || item == "+=" {
			continue
		}

		kv := strings.SplitN(item, "=", 2)
		if len(kv) < 2 {
			tags[kv[0]] = ""
		} else {
			tags[kv[0]] = unescapeTagValue(kv[1])
		}
	}

	return
}

var (
	errEmptyMessage      = errors.New("empty message")
	errIncompleteMessage = errors.New("message is incomplete")
)

var (
	errNoPrefix        = errors.New("missing prefix")
	errNotEnoughParams = errors.New("not enough params")
)

// Message is a parsed IRC line.
type Message struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string
}

// NewMessage returns a message without prefix nor tags.
func NewMessage(command string, params ...string) Message {
	return Message{Command: command, Params: params}
}

// ParseMessage parses an IRC line, without its trailing CRLF.
func ParseMessage(line string) (msg Message, err error) {
	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errEmptyMessage
		return
	}

	if line[0] == '@' {
		var tags string

		tags, line = word(line)
		msg.Tags = parseTags(tags)
	}

	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errIncompleteMessage
		return
	}

	if line[0] == ':' {
		var prefix string

		prefix, line = word(line)
		msg.Prefix = prefix[1:]
	}

	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errIncompleteMessage
		return
	}

	msg.Command, line = word(line)
	msg.Command = strings.ToUpper(msg.Command)

	msg.Params = make([]string, 0, 15)
	for line != "" {
		if line[0] == ':' {
			msg.Params = append(msg.Params, line[1:])
			break
		}

		var param string
		param, line = word(line)
		if param != "" {
			msg.Params = append(msg.Params, param)
		}
	}

	return
}

// String formats the message as an IRC line, without the trailing CRLF.
func (msg *Message) String() string {
	var sb strings.Builder

	if msg.Prefix != "" {
		sb.WriteByte(':')
		sb.WriteString(msg.Prefix)
		sb.WriteByte(' ')
	}

	sb.WriteString(msg.Command)

	for i, p := range msg.Params {
		sb.WriteByte(' ')
		if i == len(msg.Params)-1 && (p == "" || p[0] == ':' || strings.IndexByte(p, ' ') >= 0) {
			sb.WriteByte(':')
		}
		sb.WriteString(p)
	}

	return sb.String()
}

// Validate reports whether the message has the parameters the session reads.
func (msg *Message) Validate() (err error) {
	switch msg.Command {
	case rplWelcome:
		if len(msg.Params) < 1 {
			err = errNotEnoughParams
		}
	case rplIsupport:
		if len(msg.Params) < 3 {
			err = errNotEnoughParams
		}
	case rplWhoreply:
		if len(msg.Params) < 6 {
			err = errNotEnoughParams
		}
	case rplTryagain:
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		}
	case rplEndofwho:
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		}
	case rplNamreply:
		if len(msg.Params) < 4 {
			err = errNotEnoughParams
		}
	case rplLogon, rplNowon:
		if len(msg.Params) < 4 {
			err = errNotEnoughParams
		}
	case rplLogoff, rplNowoff:
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		}
	case rplMononline, rplMonoffline:
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		}
	case "JOIN", "PART":
		if len(msg.Params) < 1 {
			err = errNotEnoughParams
		} else if msg.Prefix == "" {
			err = errNoPrefix
		}
	case "KICK":
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		}
	case "NICK":
		if len(msg.Params) < 1 {
			err = errNotEnoughParams
		} else if msg.Prefix == "" {
			err = errNoPrefix
		}
	case "MODE":
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		}
	case "QUIT":
		if msg.Prefix == "" {
			err = errNoPrefix
		}
	case "PING":
		if len(msg.Params) < 1 {
			err = errNotEnoughParams
		}
	}
	return
}

// ParseMask splits a "nick!user@host" string.  Missing parts are empty.
func ParseMask(s string) (nick, user, host string) {
	if s == "" {
		return
	}

	spl0 := strings.SplitN(s, "@", 2)
	if 1 < len(spl0) {
		host = spl0[1]
	}

	spl1 := strings.SplitN(spl0[0], "!", 2)
	if 1 < len(spl1) {
		user = spl1[1]
	}

	nick = spl1[0]

	return
}
