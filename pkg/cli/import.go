package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hepworks/evtl/pkg/data"
	"github.com/hepworks/evtl/pkg/net"
)

var (
	sampleNameFlag = &cli.StringFlag{
		Name:     "sample",
		Usage:    "Name of the sample",
		Required: true,
	}

	sampleFileFlag = &cli.StringSliceFlag{
		Name:  "file",
		Usage: "Event file, local path or URL (can be specified multiple times)",
	}

	sampleGroupFlag = &cli.StringFlag{
		Name:  "group",
		Usage: "Sample group, use 'data' for recorded events",
	}

	sampleEraFlag = &cli.StringFlag{
		Name:  "era",
		Usage: "Data-taking era the sample belongs to",
	}

	crossSectionFlag = &cli.Float64Flag{
		Name:  "xsec",
		Usage: "Sample cross-section in pb, used to normalize simulation",
	}

	generatedEventsFlag = &cli.Int64Flag{
		Name:  "genevents",
		Usage: "Number of generated events in the sample",
	}

	importCmd = &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import event files into a named sample",
		UsageText: `evtl import --sample dy --file dy.csv --group DY --xsec 2075 --genevents 100000
   evtl import --sample muon2024 --group data --file https://example.com/muon2024.csv`,
		Action: cmdImport,
		Flags: []cli.Flag{
			sampleNameFlag,
			sampleFileFlag,
			sampleGroupFlag,
			sampleEraFlag,
			crossSectionFlag,
			generatedEventsFlag,
		},
	}
)

// ImportResult is the encoded outcome of one import command.
type ImportResult struct {
	Sample   string `json:"sample" yaml:"sample"`
	Files    int    `json:"files" yaml:"files"`
	Events   int64  `json:"events" yaml:"events"`
	Duration string `json:"duration" yaml:"duration"`
}

func cmdImport(c *cli.Context) error {
	start := time.Now()
	cfg := getConfig(c)

	name := c.String(sampleNameFlag.Name)
	files := c.StringSlice(sampleFileFlag.Name)
	if len(files) == 0 {
		return cli.ShowSubcommandHelp(c)
	}

	smp := &data.Sample{
		Name:            name,
		Group:           c.String(sampleGroupFlag.Name),
		Era:             c.String(sampleEraFlag.Name),
		CrossSection:    c.Float64(crossSectionFlag.Name),
		GeneratedEvents: c.Int64(generatedEventsFlag.Name),
	}
	if err := data.SaveSample(cfg.DB, smp); err != nil {
		return fmt.Errorf("saving sample %s: %w", name, err)
	}

	cacheDir := filepath.Join(os.TempDir(), "evtl-cache")

	res := &ImportResult{Sample: name, Files: len(files)}
	for _, fp := range files {
		slog.Info("importing events", "sample", name, "file", fp)
		path, err := net.Fetch(fp, cacheDir)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", fp, err)
		}
		events, err := data.ReadEventsCSV(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n, err := data.ImportEvents(cfg.DB, name, events)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		res.Events += n
	}

	res.Duration = time.Since(start).Round(time.Millisecond).String()
	return encode(res)
}
