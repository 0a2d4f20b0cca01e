// ABOUTME: CLI entry point for kilo with guaranteed terminal restoration
// ABOUTME: Loads settings, enters raw mode, sizes the screen, and runs the render loop

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mauromedda/kilo-go/internal/config"
	"github.com/mauromedda/kilo-go/internal/inspect"
	pilog "github.com/mauromedda/kilo-go/internal/log"
	"github.com/mauromedda/kilo-go/pkg/tui"
	"github.com/mauromedda/kilo-go/pkg/tui/geometry"
	"github.com/mauromedda/kilo-go/pkg/tui/key"
	"github.com/mauromedda/kilo-go/pkg/tui/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const clearScreen = "\x1b[2J\x1b[H"

func main() {
	args, err := parseFlags(flag.NewFlagSet("kilo", flag.ContinueOnError), os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		// The flag package has already printed the error and usage.
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("kilo %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	// run returns only after every deferred restore has executed.
	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "kilo: %v\n", err)
		os.Exit(1)
	}
}

// run performs the initialization sequence and owns the raw session.
func run(args cliArgs) error {
	settings, err := loadSettings(args)
	if err != nil {
		return err
	}

	if settings.Verbose {
		pilog.SetLevel(pilog.LevelDebug)
	}
	if settings.LogFile != "" {
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		prev := pilog.SetOutput(f)
		defer pilog.SetOutput(prev)
	}

	pt := terminal.NewProcessTerminal(terminal.WithReadTimeout(settings.ReadTimeout()))
	return runSession(pt, settings, args.keys)
}

func loadSettings(args cliArgs) (*config.Settings, error) {
	if args.config != "" {
		return config.LoadFile(args.config, args.overrides())
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return config.Load(cwd, args.overrides())
}

// runSession enters raw mode on t and runs either the key inspector or the
// render loop. The saved mode is restored before it returns, on success,
// on error, and on panic.
func runSession(t terminal.Terminal, settings *config.Settings, inspectKeys bool) (err error) {
	s, err := terminal.BeginRawSession(t)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			// Leave the user's shell on a clean screen.
			_, _ = t.Write([]byte(clearScreen))
		}
		if endErr := s.End(); endErr != nil {
			pilog.Debug("restoring terminal: %v", endErr)
			err = errors.Join(err, endErr)
		}
	}()
	defer terminal.RestoreOnPanic(s)
	s.RestoreOnSignal(os.Stderr)

	keys := key.NewReader(t)
	if inspectKeys {
		return inspect.Run(t, keys, settings.QuitByte())
	}

	geo, method, err := geometry.NewResolver(t, keys, settings.ProbeWindow).Resolve()
	if err != nil {
		return fmt.Errorf("get window size: %w", err)
	}
	pilog.Debug("window %s via %s", geo, method)

	ed := tui.New(t, keys, geo, tui.Options{
		QuitKey:       settings.QuitByte(),
		Placeholder:   settings.Placeholder,
		Welcome:       settings.Welcome,
		MaxFrameBytes: settings.MaxFrameBytes,
	})
	return ed.Run()
}
