package tracker

import "fmt"

// Token refers to a user across nickname changes.  It does not keep the user
// in the registry: once the user is forgotten, its accessors return
// ErrNotFound.
type Token struct {
	t   *Tracker
	key Key
}

// StartTracking returns a token for the given nickname (or nick!ident@host).
func (t *Tracker) StartTracking(nick string) (Token, error) {
	key, err := t.ResolveKey(nick)
	if err != nil {
		return Token{}, err
	}
	return Token{t: t, key: key}, nil
}

// Key returns the registry key the token refers to.
func (tok Token) Key() Key {
	return tok.key
}

func (tok Token) info(field Field) (interface{}, error) {
	if tok.t == nil {
		return nil, fmt.Errorf("empty token: %w", ErrNotFound)
	}
	return tok.t.Info(tok, field)
}

func (tok Token) str(field Field) (string, error) {
	v, err := tok.info(field)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (tok Token) Nick() (string, error) {
	return tok.str(FieldNick)
}

func (tok Token) Ident() (string, error) {
	return tok.str(FieldIdent)
}

func (tok Token) Host() (string, error) {
	return tok.str(FieldHost)
}

func (tok Token) Mask() (string, error) {
	return tok.str(FieldMask)
}

// IsOn reports whether the user is still connected.
func (tok Token) IsOn() (bool, error) {
	v, err := tok.info(FieldIsOn)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// String returns the current nickname of the user, or "???" if it is gone.
func (tok Token) String() string {
	nick, err := tok.Nick()
	if err != nil {
		return "???"
	}
	return nick
}
