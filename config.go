package ircwatch

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"git.sr.ht/~emersion/go-scfg"
	"git.sr.ht/~taiite/ircwatch/tracker"
)

type Config struct {
	Addr     string
	TLS      bool
	Nick     string
	Real     string
	User     string
	Password string

	Channels []string
	Watch    []string

	ExpireDelay time.Duration

	LogLevel string

	FloodRate  float64 // messages per second.
	FloodBurst int

	Debug bool
}

func defaultConfig() Config {
	return Config{
		TLS:         true,
		ExpireDelay: tracker.DefaultExpireDelay,
		LogLevel:    "info",
		FloodRate:   2,
		FloodBurst:  4,
	}
}

// ParseConfig reads a configuration in the scfg format.
func ParseConfig(r io.Reader) (cfg Config, err error) {
	block, err := scfg.Read(r)
	if err != nil {
		return
	}
	return unmarshalConfig(block)
}

func LoadConfigFile(filename string) (cfg Config, err error) {
	block, err := scfg.Load(filename)
	if err != nil {
		return
	}
	return unmarshalConfig(block)
}

func unmarshalConfig(block scfg.Block) (cfg Config, err error) {
	cfg = defaultConfig()

	for _, d := range block {
		switch d.Name {
		case "address":
			err = parseString(d, &cfg.Addr)
		case "tls":
			err = parseBool(d, &cfg.TLS)
		case "nickname":
			err = parseString(d, &cfg.Nick)
		case "username":
			err = parseString(d, &cfg.User)
		case "realname":
			err = parseString(d, &cfg.Real)
		case "password":
			err = parseString(d, &cfg.Password)
		case "channel":
			if len(d.Params) == 0 {
				err = fmt.Errorf("directive %q: expected at least one channel", d.Name)
			}
			cfg.Channels = append(cfg.Channels, d.Params...)
		case "watch":
			if len(d.Params) == 0 {
				err = fmt.Errorf("directive %q: expected at least one nickname", d.Name)
			}
			cfg.Watch = append(cfg.Watch, d.Params...)
		case "expire-delay":
			var s string
			if err = parseString(d, &s); err == nil {
				cfg.ExpireDelay, err = parseDelay(s)
			}
		case "log-level":
			err = parseString(d, &cfg.LogLevel)
		case "flood-rate":
			var s string
			if err = parseString(d, &s); err == nil {
				cfg.FloodRate, err = strconv.ParseFloat(s, 64)
			}
		case "flood-burst":
			var s string
			if err = parseString(d, &s); err == nil {
				cfg.FloodBurst, err = strconv.Atoi(s)
			}
		case "debug":
			err = parseBool(d, &cfg.Debug)
		default:
			err = fmt.Errorf("unknown directive %q", d.Name)
		}
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", d.Name, err)
		}
	}

	if cfg.Addr == "" {
		return cfg, fmt.Errorf("address is required")
	}
	if cfg.Nick == "" {
		return cfg, fmt.Errorf("nickname is required")
	}
	if cfg.User == "" {
		cfg.User = cfg.Nick
	}
	if cfg.Real == "" {
		cfg.Real = cfg.Nick
	}
	if cfg.FloodRate < 0 || cfg.FloodBurst < 1 {
		return cfg, fmt.Errorf("flood-rate must be positive and flood-burst at least 1")
	}

	return cfg, nil
}

func parseString(d *scfg.Directive, s *string) error {
	if len(d.Params) != 1 {
		return fmt.Errorf("expected exactly one parameter, got %d", len(d.Params))
	}
	*s = d.Params[0]
	return nil
}

func parseBool(d *scfg.Directive, b *bool) error {
	if len(d.Params) == 0 {
		*b = true
		return nil
	}
	var s string
	if err := parseString(d, &s); err != nil {
		return err
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// parseDelay accepts Go durations ("90s", "2m") and plain seconds.
func parseDelay(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}
