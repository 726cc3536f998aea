package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/greeter/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func newApp(ctrl *commands.Controller) *cli.Command {
	return &cli.Command{
		Name:    "greeter",
		Usage:   "Greeting and user registry service, plus word frequency tools",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("GREETER_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a greeter.json, greeter.yaml or greeter.toml file",
				Sources: cli.EnvVars("GREETER_CONFIG"),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			zerolog.SetGlobalLevel(level)
			if c.IsSet("log-level") {
				ctrl.Flags.LogLevel = c.String("log-level")
			}
			ctrl.Flags.ConfigPath = c.String("config")

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the greeting HTTP server",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "port",
						Usage: "port to listen on (overrides the config file)",
					},
					&cli.IntFlag{
						Name:  "shards",
						Usage: "number of user store shards (overrides the config file)",
					},
					&cli.BoolFlag{
						Name:  "metrics",
						Usage: "serve prometheus metrics on /metrics",
						Value: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					opts := commands.ServeOptions{
						Port:   int(c.Int("port")),
						Shards: int(c.Int("shards")),
					}
					if c.IsSet("metrics") {
						enabled := c.Bool("metrics")
						opts.Metrics = &enabled
					}
					return ctrl.Serve(ctx, opts)
				},
			},
			{
				Name:            "wordcount",
				Usage:           "Count tokens from arguments or stdin, sorted by token",
				ArgsUsage:       "[TOKEN...]",
				SkipFlagParsing: true,
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.WordCount(ctx, c.Args().Slice())
				},
			},
			{
				Name:            "wordfreq",
				Usage:           "Count tokens from arguments or stdin, most frequent first",
				ArgsUsage:       "[TOKEN...]",
				SkipFlagParsing: true,
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.WordFreq(ctx, c.Args().Slice())
				},
			},
			{
				Name:  "init",
				Usage: "Create a greeter config file interactively",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := newApp(ctrl)
	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run greeter")
	}
}
