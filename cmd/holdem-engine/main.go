package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`

	New     NewCmd     `cmd:"" help:"Create a new table from a genesis config"`
	Act     ActCmd     `cmd:"" help:"Apply an action to a table state file"`
	Actions ActionsCmd `cmd:"" help:"List the legal actions for a player"`
	State   StateCmd   `cmd:"" help:"Summarize a table state file"`
	Replay  ReplayCmd  `cmd:"" help:"Replay an action log and verify the resulting state"`
}

func (c *CLI) logger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-engine"),
		kong.Description("Deterministic Texas Hold'em hand engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
