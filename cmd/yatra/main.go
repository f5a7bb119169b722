package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/samirrijal/yatra/internal/pkg/logging"
)

func main() {
	app := &cli.App{
		Name:        "yatra",
		Usage:       "run the booking flows from a terminal",
		Description: "Search buses, pick seats, follow a bus and format card input without the API server",

		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for the random results; 0 draws a fresh seed",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"YATRA_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logging.Setup(c.String("log-level"), "text")
			return nil
		},

		Commands: []*cli.Command{
			searchCommand(),
			seatsCommand(),
			trackCommand(),
			formatCardCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("yatra", "error", err)
		os.Exit(1)
	}
}
