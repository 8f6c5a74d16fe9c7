package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	archiveactions "github.com/cejezed/kavelarchitect/internal/archive"
	ledgeractions "github.com/cejezed/kavelarchitect/internal/ledger"
	syncactions "github.com/cejezed/kavelarchitect/internal/sync"
)

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config.yaml",
		Usage:   "path to the YAML configuration file",
	}
	logLevelFlag := &cli.StringFlag{
		Name:  "log-level",
		Usage: "log level: debug, info, warn, error",
	}
	quietFlag := &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "only log errors",
	}

	app := &cli.App{
		Name:  "kavelarchitect",
		Usage: "discover building-plot listings and publish them as articles",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "process the inbox (or one --url) end to end",
				Flags: []cli.Flag{
					configFlag,
					logLevelFlag,
					quietFlag,
					&cli.StringFlag{
						Name:  "url",
						Usage: "process a single listing URL instead of the inbox",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "stop each listing after rendering, publish nothing",
					},
					&cli.IntFlag{
						Name:  "max-messages",
						Usage: "cap on inbox messages per run (overrides config)",
					},
				},
				Action: syncactions.Action,
			},
			{
				Name:  "ledger",
				Usage: "inspect the dedup ledger",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "print the processed URLs",
						Flags:  []cli.Flag{configFlag},
						Action: ledgeractions.ShowAction,
					},
					{
						Name:   "stats",
						Usage:  "print ledger counters",
						Flags:  []cli.Flag{configFlag},
						Action: ledgeractions.StatsAction,
					},
				},
			},
			{
				Name:  "archive",
				Usage: "inspect the listing archive",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list archived listings",
						Flags: []cli.Flag{
							configFlag,
							&cli.StringFlag{
								Name:  "status",
								Usage: "filter by status (published, duplicate, skipped, failed, dry-run)",
							},
							&cli.IntFlag{
								Name:  "limit",
								Value: 25,
								Usage: "maximum rows to print (0 for all)",
							},
						},
						Action: archiveactions.ListAction,
					},
					{
						Name:   "stats",
						Usage:  "print archive counters",
						Flags:  []cli.Flag{configFlag},
						Action: archiveactions.StatsAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
