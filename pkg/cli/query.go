package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/hepworks/evtl/pkg/data"
)

const queryResultLimitDefault = 500

var (
	queryLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of results returned",
		Value: queryResultLimitDefault,
	}

	querySampleFlag = &cli.StringFlag{
		Name:  "sample",
		Usage: "Restrict to one sample",
	}

	queryRunFlag = &cli.Int64Flag{
		Name:  "run",
		Usage: "Restrict to one run number",
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List data query operations",
		Subcommands: []*cli.Command{
			{
				Name:    "samples",
				Usage:   "List imported samples with their event counts",
				Aliases: []string{"s"},
				Action:  cmdQuerySamples,
			},
			{
				Name:    "events",
				Usage:   "List stored events with their values",
				Aliases: []string{"e"},
				Action:  cmdQueryEvents,
				Flags: []cli.Flag{
					querySampleFlag,
					queryRunFlag,
					queryLimitFlag,
				},
			},
			{
				Name:    "columns",
				Usage:   "List the value columns stored for a sample",
				Aliases: []string{"c"},
				Action:  cmdQueryColumns,
				Flags: []cli.Flag{
					querySampleFlag,
				},
			},
		},
	}
)

func cmdQuerySamples(c *cli.Context) error {
	cfg := getConfig(c)

	samples, err := data.ListSamples(cfg.DB)
	if err != nil {
		return fmt.Errorf("listing samples: %w", err)
	}
	return encode(samples)
}

func cmdQueryEvents(c *cli.Context) error {
	cfg := getConfig(c)

	q := &data.EventQuery{
		Sample: c.String(querySampleFlag.Name),
		Run:    c.Int64(queryRunFlag.Name),
		Limit:  c.Int(queryLimitFlag.Name),
	}
	events, err := data.QueryEvents(cfg.DB, q)
	if err != nil {
		return fmt.Errorf("querying events: %w", err)
	}
	return encode(events)
}

func cmdQueryColumns(c *cli.Context) error {
	cfg := getConfig(c)

	cols, err := data.ListColumns(cfg.DB, c.String(querySampleFlag.Name))
	if err != nil {
		return fmt.Errorf("listing columns: %w", err)
	}
	return encode(cols)
}
