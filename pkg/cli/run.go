package cli

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/hepworks/evtl/pkg/config"
	"github.com/hepworks/evtl/pkg/run"
)

var (
	runConfigFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "Path to the analysis YAML file",
		Required: true,
	}

	runOutFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "Directory for histogram and plot config output (optional)",
	}

	runWorkersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of samples imported concurrently",
	}

	runSkipImportFlag = &cli.BoolFlag{
		Name:  "skip-import",
		Usage: "Reuse events already in the store instead of re-importing",
	}

	runCmd = &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run a full analysis: import samples, fill every plot",
		UsageText: `evtl run --config analysis.yml --out results
   evtl run --config analysis.yml --skip-import`,
		Action: cmdRun,
		Flags: []cli.Flag{
			runConfigFlag,
			runOutFlag,
			runWorkersFlag,
			runSkipImportFlag,
		},
	}
)

func cmdRun(c *cli.Context) error {
	cfg := getConfig(c)

	a, err := config.Load(c.String(runConfigFlag.Name))
	if err != nil {
		return fmt.Errorf("loading analysis config: %w", err)
	}

	r := &run.Runner{
		DB:         cfg.DB,
		Analysis:   a,
		Workers:    c.Int(runWorkersFlag.Name),
		SkipImport: c.Bool(runSkipImportFlag.Name),
	}
	res, err := r.Run(c.Context)
	if err != nil {
		return fmt.Errorf("running analysis %s: %w", a.Name, err)
	}

	if out := c.String(runOutFlag.Name); out != "" {
		if err := run.WriteResults(out, a, res); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		slog.Info("results written", "dir", out)
	}

	return encode(res)
}
