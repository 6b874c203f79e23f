package main

import (
	"os"

	"github.com/andresuchdata/stockpulse/pkg/logger"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "stockctl",
		Usage: "Inspect inventory spreadsheets and generate stock reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "drive-file-id",
				Usage:   "Load the inventory from a Google Drive file instead of a local path",
				EnvVars: []string{"STOCKCTL_DRIVE_FILE_ID"},
			},
			&cli.StringFlag{
				Name:    "drive-credentials",
				Usage:   "Service account credentials JSON for Google Drive",
				EnvVars: []string{"GOOGLE_DRIVE_CREDENTIALS_JSON"},
			},
			&cli.StringFlag{
				Name:  "object-key",
				Usage: "Load the inventory from the configured object storage bucket",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "summary",
				Usage:     "Print inventory health metrics",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print the dashboard as JSON"},
				},
				Action: runSummary,
			},
			{
				Name:      "abc",
				Usage:     "Print the ABC classification ranked by value",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Only print the first N rows (0 prints all)"},
				},
				Action: runABC,
			},
			{
				Name:      "items",
				Usage:     "Filter the inventory table",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "location", Usage: "Keep rows at these locations"},
					&cli.StringSliceFlag{Name: "category", Usage: "Keep rows in these categories"},
					&cli.StringSliceFlag{Name: "band", Usage: "Keep rows in these stock bands (low, healthy, excess)"},
					&cli.StringFlag{Name: "search", Usage: "Case-insensitive match on item id or name"},
					&cli.BoolFlag{Name: "csv", Usage: "Write the filtered rows as CSV"},
				},
				Action: runItems,
			},
			{
				Name:      "report",
				Usage:     "Generate an Excel report",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "section",
						Usage: "Sections to include (basic, low_stock, excess_stock, abc, abc_summary)",
						Value: cli.NewStringSlice("basic", "low_stock"),
					},
					&cli.StringFlag{Name: "out", Usage: "Output path (defaults to the export dir)"},
					&cli.BoolFlag{Name: "publish", Usage: "Upload the report to object storage"},
				},
				Action: runReport,
			},
			{
				Name:  "objects",
				Usage: "List objects in the configured storage bucket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "Only list keys under this prefix"},
				},
				Action: runObjects,
			},
			{
				Name:  "cache",
				Usage: "Manage the redis dashboard cache",
				Subcommands: []*cli.Command{
					{
						Name:   "flush",
						Usage:  "Remove every cached dashboard",
						Action: runCacheFlush,
					},
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("stockctl failed")
	}
}
