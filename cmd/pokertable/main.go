package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Host a table over websocket and HTTP"`
	Score   ScoreCmd         `cmd:"" help:"Score a poker hand from the command line"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertable"),
		kong.Description("Multi-seat poker table with oracle-backed shuffling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
