// Command metro generates, evolves and serves procedurally generated cities.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`

	Generate GenerateCmd `cmd:"" help:"Generate a new city"`
	Evolve   EvolveCmd   `cmd:"" help:"Evolve a saved city by a number of years"`
	Serve    ServeCmd    `cmd:"" help:"Serve the city generation HTTP API"`
}

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("metro"),
		kong.Description("Deterministic procedural city generator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
