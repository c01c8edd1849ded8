package ircwatch

import (
	"fmt"
	"sort"
	"strings"

	"git.sr.ht/~taiite/ircwatch/tracker"
	"git.sr.ht/~taiite/ircwatch/ui"
)

type command struct {
	Online  bool // whether the command needs a connection.
	MinArgs int
	MaxArgs int
	Usage   string
	Desc    string
	Handle  func(app *App, args []string) error
}

type commandSet map[string]*command

var commands commandSet

func init() {
	commands = commandSet{
		"HELP": {
			MaxArgs: 1,
			Usage:   "[command]",
			Desc:    "show the list of commands, or how to use the given one",
			Handle:  commandDoHelp,
		},
		"WHO": {
			MinArgs: 1,
			MaxArgs: 2,
			Usage:   "<mask> [channel]",
			Desc:    "list the known users matching a nick!ident@host mask",
			Handle:  commandDoWho,
		},
		"INFO": {
			MinArgs: 1,
			MaxArgs: 2,
			Usage:   "<nick> [nick|ident|host|mask|ison]",
			Desc:    "show what is known about a user",
			Handle:  commandDoInfo,
		},
		"CHANNELS": {
			MinArgs: 1,
			MaxArgs: 1,
			Usage:   "<nick>",
			Desc:    "list the channels shared with a user",
			Handle:  commandDoChannels,
		},
		"ISON": {
			MinArgs: 1,
			MaxArgs: 2,
			Usage:   "<channel> [nick]",
			Desc:    "tell whether a user, or yourself, is on a channel",
			Handle:  commandDoIsOn,
		},
		"MODES": {
			MinArgs: 1,
			MaxArgs: 3,
			Usage:   "<channel> [modes] [-]",
			Desc:    "list the members holding all the given modes, or none of them with \"-\"",
			Handle:  commandDoModes,
		},
		"PRIVS": {
			MinArgs: 2,
			MaxArgs: 2,
			Usage:   "<channel> <nick>",
			Desc:    "show the modes a member holds on a channel",
			Handle:  commandDoPrivs,
		},
		"TRACK": {
			MinArgs: 1,
			MaxArgs: 1,
			Usage:   "<nick>",
			Desc:    "follow a user across nickname changes",
			Handle:  commandDoTrack,
		},
		"TOKENS": {
			Desc:   "show the users being followed",
			Handle: commandDoTokens,
		},
		"USERS": {
			Desc:   "list every known user",
			Handle: commandDoUsers,
		},
		"JOIN": {
			Online:  true,
			MinArgs: 1,
			MaxArgs: 1,
			Usage:   "<channel>",
			Desc:    "join a channel",
			Handle:  commandDoJoin,
		},
		"PART": {
			Online:  true,
			MinArgs: 1,
			MaxArgs: 2,
			Usage:   "<channel> [reason]",
			Desc:    "part a channel",
			Handle:  commandDoPart,
		},
		"QUOTE": {
			Online:  true,
			MinArgs: 1,
			MaxArgs: 1,
			Usage:   "<raw message>",
			Desc:    "send raw protocol data",
			Handle:  commandDoQuote,
		},
		"QUIT": {
			MaxArgs: 1,
			Usage:   "[reason]",
			Desc:    "quit ircwatch",
			Handle:  commandDoQuit,
		},
	}
}

func commandDoHelp(app *App, args []string) (err error) {
	names := make([]string, 0, len(commands))
	for cmdName := range commands {
		names = append(names, cmdName)
	}
	sort.Strings(names)

	var table ui.Table
	if len(args) == 0 {
		app.printf("Available commands:\n")
		for _, cmdName := range names {
			cmd := commands[cmdName]
			table.AddRow("  "+cmdName+" "+cmd.Usage, cmd.Desc)
		}
	} else {
		search := strings.ToUpper(args[0])
		for _, cmdName := range names {
			if !strings.Contains(cmdName, search) {
				continue
			}
			cmd := commands[cmdName]
			table.AddRow("  "+cmdName+" "+cmd.Usage, cmd.Desc)
		}
		if table.Len() == 0 {
			return fmt.Errorf("no command matches %q", args[0])
		}
		app.printf("Commands that match %q:\n", search)
	}
	app.printTable(&table)
	return
}

func commandDoWho(app *App, args []string) (err error) {
	channel := ""
	if len(args) == 2 {
		channel = args[1]
	}
	masks, err := app.tracker.Search(args[0], channel)
	if err != nil {
		return
	}
	if len(masks) == 0 {
		app.printf("No user matches %q\n", args[0])
		return
	}
	for _, mask := range masks {
		app.printf("%s\n", mask)
	}
	return
}

func commandDoInfo(app *App, args []string) (err error) {
	if len(args) == 2 {
		var field tracker.Field
		field, err = tracker.ParseField(args[1])
		if err != nil {
			return
		}
		var v interface{}
		v, err = app.tracker.Info(args[0], field)
		if err != nil {
			return
		}
		app.printf("%v\n", v)
		return
	}

	var table ui.Table
	for f := tracker.FieldNick; f <= tracker.FieldIsOn; f++ {
		var v interface{}
		v, err = app.tracker.Info(args[0], f)
		if err != nil {
			return
		}
		table.AddRow(f.String(), fmt.Sprint(v))
	}
	channels, err := app.tracker.CommonChannels(args[0])
	if err != nil {
		return
	}
	table.AddRow("channels", strings.Join(channels, " "))
	app.printTable(&table)
	return
}

func commandDoChannels(app *App, args []string) (err error) {
	channels, err := app.tracker.CommonChannels(args[0])
	if err != nil {
		return
	}
	if len(channels) == 0 {
		app.printf("No channel in common with %s\n", args[0])
		return
	}
	app.printf("%s\n", strings.Join(channels, " "))
	return
}

func commandDoIsOn(app *App, args []string) (err error) {
	nick := ""
	if len(args) == 2 {
		nick = args[1]
	}
	who := nick
	if who == "" {
		who = app.tracker.Nick()
	}
	if app.tracker.IsOn(args[0], nick) {
		app.printf("%s is on %s\n", who, args[0])
	} else {
		app.printf("%s is not on %s\n", who, args[0])
	}
	return
}

func commandDoModes(app *App, args []string) (err error) {
	var modes string
	var negate bool
	for _, arg := range args[1:] {
		if arg == "-" {
			negate = true
		} else if modes == "" {
			modes = strings.TrimPrefix(arg, "+")
		} else {
			return fmt.Errorf("usage: MODES %s", commands["MODES"].Usage)
		}
	}
	nicks, err := app.tracker.MembersByModes(args[0], modes, negate)
	if err != nil {
		return
	}
	if len(nicks) == 0 {
		app.printf("No member matches\n")
		return
	}
	app.printf("%s\n", strings.Join(nicks, " "))
	return
}

func commandDoPrivs(app *App, args []string) (err error) {
	modes, err := app.tracker.Privileges(args[0], args[1])
	if err != nil {
		return
	}
	if modes == "" {
		app.printf("%s holds no mode on %s\n", args[1], args[0])
	} else {
		app.printf("%s is +%s on %s\n", args[1], modes, args[0])
	}
	return
}

func commandDoTrack(app *App, args []string) (err error) {
	tok, err := app.tracker.StartTracking(args[0])
	if err != nil {
		return
	}
	app.tokens = append(app.tokens, tok)
	app.printf("Following %s as #%d\n", tok, len(app.tokens))
	return
}

func commandDoTokens(app *App, args []string) (err error) {
	if len(app.tokens) == 0 {
		app.printf("No user is being followed\n")
		return
	}
	var table ui.Table
	for i, tok := range app.tokens {
		mask, err := tok.Mask()
		if err != nil {
			mask = "gone"
		}
		table.AddRow(fmt.Sprintf("#%d", i+1), tok.String(), mask)
	}
	app.printTable(&table)
	return
}

func commandDoUsers(app *App, args []string) (err error) {
	var table ui.Table
	for _, mask := range app.tracker.Masks() {
		nick, _, _ := splitNick(mask)
		channels, _ := app.tracker.CommonChannels(nick)
		table.AddRow(mask, strings.Join(channels, " "))
	}
	app.printTable(&table)
	app.printf("%d users\n", table.Len())
	return
}

func commandDoJoin(app *App, args []string) (err error) {
	app.s.Join(args[0])
	return
}

func commandDoPart(app *App, args []string) (err error) {
	reason := ""
	if len(args) == 2 {
		reason = args[1]
	}
	app.s.Part(args[0], reason)
	return
}

func commandDoQuote(app *App, args []string) (err error) {
	app.s.SendRaw(args[0])
	return
}

func commandDoQuit(app *App, args []string) (err error) {
	reason := ""
	if 0 < len(args) {
		reason = args[0]
	}
	if app.s != nil {
		app.s.Quit(reason)
	}
	app.Exit()
	return
}

func splitNick(mask string) (nick, rest string, ok bool) {
	i := strings.IndexByte(mask, '!')
	if i < 0 {
		return mask, "", false
	}
	return mask[:i], mask[i:], true
}

// implemented from https://golang.org/src/strings/strings.go?s=8055:8085#L310
func fieldsN(s string, n int) []string {
	s = strings.TrimSpace(s)
	if s == "" || n == 0 {
		return nil
	}
	if n == 1 {
		return []string{s}
	}
	n--
	// Start of the ASCII fast path.
	var a []string
	na := 0
	fieldStart := 0
	i := 0
	// Skip spaces in front of the input.
	for i < len(s) && s[i] == ' ' {
		i++
	}
	fieldStart = i
	for i < len(s) {
		if s[i] != ' ' {
			i++
			continue
		}
		a = append(a, s[fieldStart:i])
		na++
		i++
		// Skip spaces in between fields.
		for i < len(s) && s[i] == ' ' {
			i++
		}
		fieldStart = i
		if n <= na {
			a = append(a, s[fieldStart:])
			return a
		}
	}
	if fieldStart < len(s) {
		// Last field ends at EOF.
		a = append(a, s[fieldStart:])
	}
	return a
}

// parseCommand splits an input line into its command name and arguments.  The
// leading slash is optional.
func parseCommand(s string) (command, args string) {
	s = strings.TrimLeft(s, " ")
	s = strings.TrimPrefix(s, "/")

	i := strings.IndexByte(s, ' ')
	if i < 0 {
		i = len(s)
	}

	command = strings.ToUpper(s[:i])
	args = strings.TrimLeft(s[i:], " ")
	return
}

func (app *App) handleInput(content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	cmdName, rawArgs := parseCommand(content)
	if cmdName == "" {
		return fmt.Errorf("lone slash at the begining")
	}

	var chosenCMDName string
	var found bool
	if _, ok := commands[cmdName]; ok {
		chosenCMDName = cmdName
		found = true
	} else {
		for key := range commands {
			if !strings.HasPrefix(key, cmdName) {
				continue
			}
			if found {
				return fmt.Errorf("ambiguous command %q (could mean %v or %v)", cmdName, chosenCMDName, key)
			}
			chosenCMDName = key
			found = true
		}
	}
	if !found {
		return fmt.Errorf("command %q doesn't exist", cmdName)
	}

	cmd := commands[chosenCMDName]

	var args []string
	if rawArgs != "" && cmd.MaxArgs != 0 {
		args = fieldsN(rawArgs, cmd.MaxArgs)
	}

	if len(args) < cmd.MinArgs {
		return fmt.Errorf("usage: %s %s", chosenCMDName, cmd.Usage)
	}
	if cmd.Online && app.s == nil {
		return fmt.Errorf("command %q needs a connection", chosenCMDName)
	}

	return cmd.Handle(app, args)
}
