package ircwatch

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"git.sr.ht/~taiite/ircwatch/irc"
	"git.sr.ht/~taiite/ircwatch/tracker"
	"git.sr.ht/~taiite/ircwatch/ui"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const eventChanSize = 64

type event struct {
	src     string // empty string for user input, "irc" for IRC events
	content interface{}
}

// App connects to an IRC server, feeds the tracker with what happens there,
// and answers commands about it.
//
// Everything touching the tracker or the session runs on the goroutine
// calling Run.
type App struct {
	cfg    Config
	log    *zerolog.Logger
	out    io.Writer
	events chan event
	done   chan struct{}
	exit   sync.Once

	timers  *Timers
	tracker *tracker.Tracker
	s       *irc.Session // nil while disconnected.

	tokens []tracker.Token
	comp   completer
}

// NewApp returns an App printing command output to out.
func NewApp(cfg Config, log *zerolog.Logger, out io.Writer) *App {
	app := &App{
		cfg:    cfg,
		log:    log,
		out:    out,
		events: make(chan event, eventChanSize),
		done:   make(chan struct{}),
		timers: NewTimers(),
	}
	app.tracker = tracker.New(tracker.Params{
		Nick:        cfg.Nick,
		Casemap:     app.casemap,
		Sender:      app,
		Timer:       app.timers,
		Prefixes:    app,
		ExpireDelay: cfg.ExpireDelay,
		Logger:      log,
	})
	return app
}

// Close stops the timers and the connection.
func (app *App) Close() {
	if app.s != nil {
		app.s.Close()
		app.s = nil
	}
	app.timers.Close()
}

// Exit makes Run return.  It may be called from any goroutine.
func (app *App) Exit() {
	app.exit.Do(func() {
		close(app.done)
	})
}

// Input submits a command line.  Its output is written asynchronously.
func (app *App) Input(line string) {
	select {
	case app.events <- event{content: line}:
	case <-app.done:
	}
}

func (app *App) Run() {
	go app.ircLoop()
	app.eventLoop()
}

// eventLoop retrieves events (in batches) from the event channel and timer
// expiries, handles them, then refreshes completions after each batch.
func (app *App) eventLoop() {
	evs := make([]event, 0, eventChanSize)
	for {
		var ev event
		select {
		case ev = <-app.events:
		case f := <-app.timers.Fired():
			f()
			app.refreshCompletions()
			continue
		case <-app.done:
			return
		}
		evs = evs[:0]
		evs = append(evs, ev)
	Batch:
		for i := 0; i < eventChanSize; i++ {
			select {
			case ev := <-app.events:
				evs = append(evs, ev)
			default:
				break Batch
			}
		}

		app.handleEvents(evs)
		app.refreshCompletions()
	}
}

// handleEvents handles a batch of events.
func (app *App) handleEvents(evs []event) {
	for _, ev := range evs {
		if ev.src == "" {
			app.handleUIEvent(ev.content)
		} else {
			app.handleIRCEvent(ev.content)
		}
	}
}

// ircLoop maintains a connection to the IRC server by connecting and then
// forwarding IRC messages to app.events repeatedly.
func (app *App) ircLoop() {
	params := irc.SessionParams{
		Nickname: app.cfg.Nick,
		Username: app.cfg.User,
		RealName: app.cfg.Real,
		Password: app.cfg.Password,
		Channels: app.cfg.Channels,
		Watch:    app.cfg.Watch,
	}
	for {
		conn := app.connect()
		if conn == nil {
			return
		}
		var limiter *rate.Limiter
		if app.cfg.FloodRate > 0 {
			limiter = rate.NewLimiter(rate.Limit(app.cfg.FloodRate), app.cfg.FloodBurst)
		}
		in, out := irc.ChanInOut(conn, limiter)
		if app.cfg.Debug {
			out = app.debugOutputMessages(out)
		}
		session := irc.NewSession(out, params)
		if !app.send(event{src: "irc", content: session}) {
			session.Close()
			return
		}
		for msg := range in {
			if app.cfg.Debug {
				app.log.Debug().Str("line", msg.String()).Msg("IN")
			}
			if !app.send(event{src: "irc", content: msg}) {
				return
			}
		}
		if !app.send(event{src: "irc", content: nil}) {
			return
		}
		if !app.sleep(10 * time.Second) {
			return
		}
	}
}

func (app *App) send(ev event) bool {
	select {
	case app.events <- ev:
		return true
	case <-app.done:
		return false
	}
}

func (app *App) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-app.done:
		return false
	}
}

// connect retries until a connection is made, or returns nil on exit.
func (app *App) connect() net.Conn {
	for {
		app.log.Info().Str("address", app.cfg.Addr).Msg("connecting")
		conn, err := app.tryConnect()
		if err == nil {
			return conn
		}
		app.log.Error().Err(err).Msg("connection failed")
		if !app.sleep(1 * time.Minute) {
			return nil
		}
	}
}

func (app *App) tryConnect() (conn net.Conn, err error) {
	addr := app.cfg.Addr
	colonIdx := strings.LastIndexByte(addr, ':')
	bracketIdx := strings.LastIndexByte(addr, ']')
	if colonIdx <= bracketIdx {
		// either colonIdx < 0, or the last colon is before a ']' (end
		// of IPv6 address. -> missing port
		if app.cfg.TLS {
			addr += ":6697"
		} else {
			addr += ":6667"
		}
	}

	conn, err = net.DialTimeout("tcp", addr, 30*time.Second)
	if err != nil {
		return
	}

	if app.cfg.TLS {
		host, _, _ := net.SplitHostPort(addr) // should succeed since net.Dial did.
		conn = tls.Client(conn, &tls.Config{
			ServerName: host,
			NextProtos: []string{"irc"},
		})
		err = conn.(*tls.Conn).Handshake()
		if err != nil {
			conn.Close()
			return nil, err
		}
	}

	return
}

func (app *App) debugOutputMessages(out chan<- irc.Message) chan<- irc.Message {
	debugOut := make(chan irc.Message, cap(out))
	go func() {
		for msg := range debugOut {
			app.log.Debug().Str("line", msg.String()).Msg("OUT")
			out <- msg
		}
		close(out)
	}()
	return debugOut
}

func (app *App) handleUIEvent(ev interface{}) {
	if line, ok := ev.(string); ok {
		if err := app.handleInput(line); err != nil {
			app.printf("%q: %s\n", line, err)
		}
	}
}

func (app *App) handleIRCEvent(ev interface{}) {
	if ev == nil {
		if app.s != nil {
			app.s.Close()
			app.s = nil
		}
		app.tracker.Reset()
		app.log.Warn().Msg("connection lost")
		return
	}
	if s, ok := ev.(*irc.Session); ok {
		if app.s != nil {
			app.s.Close()
		}
		app.s = s
		app.tracker.Reset()
		return
	}

	if app.s == nil {
		return
	}
	msg := ev.(irc.Message)
	for _, ev := range app.s.HandleMessage(msg) {
		app.tracker.Handle(ev)
		app.logEvent(ev)
		if _, ok := ev.(tracker.Capabilities); ok {
			app.s.JoinChannels()
		}
	}
}

func (app *App) logEvent(ev tracker.Event) {
	switch ev := ev.(type) {
	case tracker.Registered:
		app.log.Info().Str("nick", ev.Nick).Msg("connected to the server")
	case tracker.Capabilities:
		app.log.Debug().
			Bool("namesx", ev.ExtendedNames).
			Bool("uhnames", ev.UserhostInNames).
			Bool("cap", ev.Negotiated).
			Msg("names extensions")
	case tracker.Join:
		if app.tracker.Nick() != "" && app.casemap(ev.Nick) == app.casemap(app.tracker.Nick()) {
			app.log.Info().Str("channel", ev.Channel).Msg("joined")
		}
	case tracker.Departure:
		if ev.Reason != tracker.ReasonQuit && app.casemap(ev.Nick) == app.casemap(app.tracker.Nick()) {
			app.log.Info().Str("channel", ev.Channel).Stringer("reason", ev.Reason).Msg("left")
		}
	case tracker.Notify:
		app.log.Info().Str("nick", ev.Nick).Msg("watched user is online")
	case tracker.Unnotify:
		app.log.Info().Str("nick", ev.Nick).Msg("watched user is offline")
	}
}

// SendRaw implements tracker.Sender.
func (app *App) SendRaw(line string) {
	if app.s == nil {
		return
	}
	app.s.SendRaw(line)
}

// ModeForPrefix implements tracker.PrefixTranslator with the PREFIX the
// server advertised.
func (app *App) ModeForPrefix(prefix byte) (mode byte, ok bool) {
	if app.s == nil {
		return irc.NewFeatures().ModeForPrefix(prefix)
	}
	return app.s.Features().ModeForPrefix(prefix)
}

func (app *App) casemap(name string) string {
	if app.s == nil {
		return irc.CasemapRFC1459(name)
	}
	return app.s.Casemap(name)
}

func (app *App) printf(format string, a ...interface{}) {
	fmt.Fprintf(app.out, format, a...)
}

func (app *App) printTable(table *ui.Table) {
	_, _ = table.WriteTo(app.out)
}
