package irc

import (
	"errors"
	"strings"
)

var errMissingModeParam = errors.New("missing mode parameter")

// ModeChange is one channel mode set or unset by a MODE message.
type ModeChange struct {
	Enable bool
	Mode   byte
	Param  string
}

// ParseChannelMode splits the mode string and parameters of a channel MODE
// message into changes.  chanmodes and prefixModes tell which modes take a
// parameter.  Unknown modes are assumed to take none.
func ParseChannelMode(modes string, params []string, chanmodes [4]string, prefixModes string) (changes []ModeChange, err error) {
	enable := true
	j := 0
	for i := 0; i < len(modes); i++ {
		mode := modes[i]
		if mode == '+' || mode == '-' {
			enable = mode == '+'
			continue
		}

		var takesParam bool
		if strings.IndexByte(prefixModes, mode) >= 0 {
			takesParam = true
		} else if strings.IndexByte(chanmodes[0], mode) >= 0 || strings.IndexByte(chanmodes[1], mode) >= 0 {
			takesParam = true
		} else if strings.IndexByte(chanmodes[2], mode) >= 0 {
			takesParam = enable
		}

		change := ModeChange{Enable: enable, Mode: mode}
		if takesParam {
			if len(params) <= j {
				return changes, errMissingModeParam
			}
			change.Param = params[j]
			j++
		}
		changes = append(changes, change)
	}
	return changes, nil
}
