package irc

import (
	"strings"
	"unicode"
)

// Features holds what the server advertised through RPL_ISUPPORT.
type Features struct {
	casemap       func(string) string
	chantypes     string
	chanmodes     [4]string
	prefixModes   string
	prefixSymbols string
	namesx        bool
	uhnames       bool
	monitor       bool
	watch         bool
}

// NewFeatures returns the features assumed before the server sends any.
func NewFeatures() *Features {
	return &Features{
		casemap:       CasemapRFC1459,
		chantypes:     "#&",
		chanmodes:     [4]string{"beI", "k", "l", "imnpst"},
		prefixModes:   "ov",
		prefixSymbols: "@+",
	}
}

// Update records the given "KEY[=VALUE]" tokens.  Negated tokens restore
// the default of the feature.
func (f *Features) Update(tokens []string) {
	defaults := NewFeatures()

	for _, token := range tokens {
		if token == "" || token == "-" || token == "=" || token == "-=" {
			continue
		}

		var (
			add   bool
			key   string
			value string
		)

		if strings.HasPrefix(token, "-") {
			add = false
			token = token[1:]
		} else {
			add = true
		}

		kv := strings.SplitN(token, "=", 2)
		key = strings.ToUpper(kv[0])
		if len(kv) > 1 {
			value = kv[1]
		}

	Switch:
		switch key {
		case "CASEMAPPING":
			if !add {
				f.casemap = defaults.casemap
				break
			}
			switch value {
			case "ascii":
				f.casemap = CasemapASCII
			default:
				f.casemap = CasemapRFC1459
			}
		case "CHANTYPES":
			if !add {
				f.chantypes = defaults.chantypes
				break
			}
			f.chantypes = value
		case "CHANMODES":
			if !add {
				f.chanmodes = defaults.chanmodes
				break
			}
			spl := strings.SplitN(value, ",", 5)
			if len(spl) < 4 {
				break Switch
			}
			copy(f.chanmodes[:], spl)
		case "PREFIX":
			if !add {
				f.prefixModes = defaults.prefixModes
				f.prefixSymbols = defaults.prefixSymbols
				break
			}
			if value == "" {
				f.prefixModes = ""
				f.prefixSymbols = ""
				break
			}
			if len(value)%2 != 0 || value[0] != '(' {
				break Switch
			}
			for i := 0; i < len(value); i++ {
				if unicode.MaxASCII < value[i] {
					break Switch
				}
			}
			numPrefixes := len(value)/2 - 1
			if value[numPrefixes+1] != ')' {
				break Switch
			}
			f.prefixModes = value[1 : numPrefixes+1]
			f.prefixSymbols = value[numPrefixes+2:]
		case "NAMESX":
			f.namesx = add
		case "UHNAMES":
			f.uhnames = add
		case "MONITOR":
			f.monitor = add
		case "WATCH":
			f.watch = add
		}
	}
}

// Casemap normalizes name according to the server CASEMAPPING.
func (f *Features) Casemap(name string) string {
	return f.casemap(name)
}

func (f *Features) IsChannel(name string) bool {
	return name != "" && strings.IndexByte(f.chantypes, name[0]) >= 0
}

// ModeForPrefix returns the channel mode of a membership prefix, as found
// in NAMES replies.
func (f *Features) ModeForPrefix(prefix byte) (mode byte, ok bool) {
	i := strings.IndexByte(f.prefixSymbols, prefix)
	if i < 0 || len(f.prefixModes) <= i {
		return 0, false
	}
	return f.prefixModes[i], true
}

// ChanModes returns the four CHANMODES groups: list modes, modes that always
// take a parameter, modes that take one when set, and flags.
func (f *Features) ChanModes() [4]string {
	return f.chanmodes
}

// PrefixModes returns the membership modes, highest first.
func (f *Features) PrefixModes() string {
	return f.prefixModes
}

func (f *Features) HasNamesX() bool {
	return f.namesx
}

func (f *Features) HasUHNames() bool {
	return f.uhnames
}

func (f *Features) HasMonitor() bool {
	return f.monitor
}

func (f *Features) HasWatch() bool {
	return f.watch
}

// CasemapFunc returns the casemapping function currently in use.
func (f *Features) CasemapFunc() func(string) string {
	return f.casemap
}
