package tracker

// handleCapabilities requests the NAMES extensions the server supports.
func (t *Tracker) handleCapabilities(ev Capabilities) {
	t.uhnames = ev.UserhostInNames
	if ev.Negotiated {
		return
	}
	if ev.ExtendedNames {
		t.send("PROTOCTL NAMESX")
	}
	if ev.UserhostInNames {
		t.send("PROTOCTL UHNAMES")
	}
}

// handleRoster folds a line of a NAMES reply into the registry.  Each token is
// a nickname (or a full mask with UHNAMES) preceded by membership prefixes.
//
// Replies for channels we are not on, such as answers to a manual NAMES, are
// ignored: we always see our own JOIN before the roster of a channel.
func (t *Tracker) handleRoster(ev Roster) {
	if _, ok := t.channel(ev.Channel); !ok {
		t.log.Debug().Str("channel", ev.Channel).Msg("ignoring NAMES reply for a channel we are not on")
		return
	}

	partial := !t.uhnames
	for _, token := range ev.Tokens {
		var modes []byte
		i := 0
		for ; i < len(token); i++ {
			mode, ok := t.prefixes.ModeForPrefix(token[i])
			if !ok {
				break
			}
			modes = append(modes, mode)
		}

		nick, ident, host := splitMask(token[i:])
		if nick == "" {
			t.log.Debug().Str("channel", ev.Channel).Str("token", token).Msg("skipping malformed NAMES entry")
			continue
		}

		if ident == "" {
			partial = true
		}
		key := t.UpsertIdentity(nick, ident, host)
		t.join(ev.Channel, key, string(modes))
	}

	// UHNAMES may have been requested after the server started answering.
	if partial {
		t.requestWho(ev.Channel)
	}
}

// requestWho asks for the identity of the members of channel, unless a request
// is already in flight.
func (t *Tracker) requestWho(channel string) {
	channelCf := t.casemap(channel)
	if _, ok := t.whoReqs[channelCf]; ok {
		return
	}
	t.whoReqs[channelCf] = struct{}{}
	t.send("WHO " + channel)
}

// handleWho completes the identity of a user from a WHO reply.
func (t *Tracker) handleWho(ev Who) {
	key := t.UpsertIdentity(ev.Nick, ev.Ident, ev.Host)
	if len(t.commonChannels(key)) != 0 {
		return
	}
	if _, ok := t.watched[t.casemap(ev.Nick)]; ok {
		return
	}
	t.scheduleEviction(key, t.delay)
}

func (t *Tracker) handleWhoEnd(ev WhoEnd) {
	if ev.Target == "" {
		t.whoReqs = map[string]struct{}{}
		return
	}
	delete(t.whoReqs, t.casemap(ev.Target))
}
