// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --config, --quit-key, --welcome, --verbose, --log, --keys, --version

package main

import (
	"flag"

	"github.com/mauromedda/kilo-go/internal/config"
)

type cliArgs struct {
	config  string
	quitKey string
	welcome string
	verbose bool
	logFile string
	keys    bool
	version bool
}

func parseFlags(fs *flag.FlagSet, argv []string) (cliArgs, error) {
	var args cliArgs

	fs.StringVar(&args.config, "config", "", "Read settings from this YAML file instead of ~/.kilo-go and ./.kilo-go")
	fs.StringVar(&args.quitKey, "quit-key", "", "Letter that quits together with Ctrl (default q)")
	fs.StringVar(&args.welcome, "welcome", "", "Welcome line drawn a third of the way down the screen")
	fs.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	fs.StringVar(&args.logFile, "log", "", "Append log output to this file instead of stderr")
	fs.BoolVar(&args.keys, "keys", false, "Print the code of each key pressed instead of drawing the screen")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	return args, nil
}

// overrides returns the settings layer contributed by flags.
func (a cliArgs) overrides() *config.Settings {
	return &config.Settings{
		QuitKey: a.quitKey,
		Welcome: a.welcome,
		Verbose: a.verbose,
		LogFile: a.logFile,
	}
}
