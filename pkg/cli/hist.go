package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hepworks/evtl/pkg/data"
	"github.com/hepworks/evtl/pkg/frame"
	"github.com/hepworks/evtl/pkg/ops"
)

const histBinsDefault = 50

var (
	histColumnFlag = &cli.StringFlag{
		Name:     "column",
		Usage:    "Value column to histogram",
		Required: true,
	}

	histWeightFlag = &cli.StringFlag{
		Name:  "weight",
		Usage: "Value column to weight entries with (optional)",
	}

	histBinsFlag = &cli.IntFlag{
		Name:  "bins",
		Usage: "Number of bins",
		Value: histBinsDefault,
	}

	histMinFlag = &cli.Float64Flag{
		Name:  "min",
		Usage: "Lower edge of the axis",
	}

	histMaxFlag = &cli.Float64Flag{
		Name:  "max",
		Usage: "Upper edge of the axis",
	}

	histCutFlag = &cli.StringSliceFlag{
		Name:  "cut",
		Usage: "Selection as column:lo:hi, both bounds exclusive (can be specified multiple times)",
	}

	histCmd = &cli.Command{
		Name:    "hist",
		Aliases: []string{"h"},
		Usage:   "Produce an ad-hoc histogram from stored events",
		UsageText: `evtl hist --sample dy --column mll --bins 60 --min 60 --max 120
   evtl hist --sample dy --column met --min 0 --max 500 --cut mll:81:101`,
		Action: cmdHist,
		Flags: []cli.Flag{
			sampleNameFlag,
			histColumnFlag,
			histWeightFlag,
			histBinsFlag,
			histMinFlag,
			histMaxFlag,
			histCutFlag,
		},
	}
)

// HistResult is the encoded outcome of one hist command.
type HistResult struct {
	Sample    string           `json:"sample" yaml:"sample"`
	Histogram *frame.Histogram `json:"histogram" yaml:"histogram"`
	PeakBin   int              `json:"peak_bin" yaml:"peak_bin"`
	PeakCount float64          `json:"peak_count" yaml:"peak_count"`
}

func cmdHist(c *cli.Context) error {
	cfg := getConfig(c)
	sample := c.String(sampleNameFlag.Name)
	column := c.String(histColumnFlag.Name)

	fr := data.NewFrame(cfg.DB, sample)
	for _, cut := range c.StringSlice(histCutFlag.Name) {
		col, lo, hi, err := parseCut(cut)
		if err != nil {
			return err
		}
		fr = fr.WithCut(col, lo, hi)
	}

	model := frame.H1Model{
		Name:  column,
		Title: column,
		Bins:  c.Int(histBinsFlag.Name),
		Min:   c.Float64(histMinFlag.Name),
		Max:   c.Float64(histMaxFlag.Name),
	}

	var h *frame.Histogram
	var err error
	if w := c.String(histWeightFlag.Name); w != "" {
		h, err = frame.Histo1DWeighted(fr, model, column, w)
	} else {
		h, err = frame.Histo1D(fr, model, column)
	}
	if err != nil {
		return fmt.Errorf("filling histogram: %w", err)
	}

	bin, count := ops.MaxElementBy(h.Counts, func(v float64) float64 { return v })
	return encode(&HistResult{
		Sample:    sample,
		Histogram: h,
		PeakBin:   bin,
		PeakCount: count,
	})
}

// parseCut splits a column:lo:hi selection argument.
func parseCut(s string) (string, float64, float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("invalid cut %q, want column:lo:hi", s)
	}
	lo, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid cut lower bound %q: %w", parts[1], err)
	}
	hi, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid cut upper bound %q: %w", parts[2], err)
	}
	return parts[0], lo, hi, nil
}
