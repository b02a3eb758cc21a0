package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "prixcarburant",
		Usage: "Follow French fuel station prices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"PRIXCARBURANT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Database file",
				EnvVars: []string{"PRIXCARBURANT_DB"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"PRIXCARBURANT_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			stationsCommand(),
			nearestCommand(),
			serveCommand(),
			historyCommand(),
			exportGPXCommand(),
			checkStatusCommand(),
			pruneCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
