package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"git.sr.ht/~taiite/ircwatch"
	"golang.org/x/term"
)

func main() {
	var configPath string
	var debug bool
	var logLevel string
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.BoolVar(&debug, "debug", false, "log raw protocol data")
	flag.StringVar(&logLevel, "log-level", "", "override the log level of the configuration file")
	flag.Parse()

	if configPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			panic(err)
		}
		configPath = path.Join(configDir, "ircwatch", "ircwatch.scfg")
	}

	cfg, err := ircwatch.LoadConfigFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load the required configuration file at %q: %s\n", configPath, err)
		os.Exit(1)
	}

	cfg.Debug = cfg.Debug || debug
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	var (
		out      io.Writer
		readLine func() (string, error)
		t        *term.Terminal
	)
	if term.IsTerminal(0) {
		oldState, err := term.MakeRaw(0)
		if err != nil {
			panic(err)
		}
		defer term.Restore(0, oldState)

		screen := struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}
		t = term.NewTerminal(screen, "> ")
		out = t
		readLine = t.ReadLine
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		out = os.Stdout
		readLine = func() (string, error) {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", err
				}
				return "", io.EOF
			}
			return scanner.Text(), nil
		}
	}

	app := ircwatch.NewApp(cfg, ircwatch.NewLogger(cfg.LogLevel, out), out)
	if t != nil {
		t.AutoCompleteCallback = app.Complete
	}

	go func() {
		for {
			line, err := readLine()
			if err != nil {
				break
			}
			app.Input(line)
		}
		app.Exit()
	}()

	app.Run()
	app.Close()
}
