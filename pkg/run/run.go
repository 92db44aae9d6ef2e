// Package run drives a full analysis: import the configured samples
// into the event store, produce every configured histogram for every
// sample, and write the results.
package run

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hepworks/evtl/pkg/config"
	"github.com/hepworks/evtl/pkg/data"
	"github.com/hepworks/evtl/pkg/frame"
	"github.com/hepworks/evtl/pkg/net"
	"github.com/hepworks/evtl/pkg/ops"
)

const workersDefault = 4

// Runner executes one analysis description against an event store.
type Runner struct {
	DB       *sql.DB
	Analysis *config.Analysis

	// Workers bounds the number of samples imported concurrently.
	Workers int

	// SkipImport reuses events already in the store instead of
	// re-reading the sample files.
	SkipImport bool

	// CacheDir receives downloaded copies of remote sample files.
	// Defaults to a per-user directory under os.TempDir.
	CacheDir string
}

// PlotResult is one produced histogram with its summary numbers.
type PlotResult struct {
	Plot      string           `json:"plot" yaml:"plot"`
	Sample    string           `json:"sample" yaml:"sample"`
	Histogram *frame.Histogram `json:"histogram" yaml:"histogram"`
	PeakBin   int              `json:"peak_bin" yaml:"peak_bin"`
	PeakCount float64          `json:"peak_count" yaml:"peak_count"`
}

// Result is the outcome of one analysis run.
type Result struct {
	Analysis string           `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Imported map[string]int64 `json:"imported,omitempty" yaml:"imported,omitempty"`
	Plots    []*PlotResult    `json:"plots" yaml:"plots"`
	Duration string           `json:"duration" yaml:"duration"`
}

// Run imports the samples and fills every plot for every sample.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.DB == nil {
		return nil, errors.New("runner requires a database")
	}
	if r.Analysis == nil {
		return nil, errors.New("runner requires an analysis config")
	}

	start := time.Now()
	res := &Result{
		Analysis: r.Analysis.Name,
		Imported: make(map[string]int64, len(r.Analysis.Samples)),
	}

	if !r.SkipImport {
		if err := r.importSamples(ctx, res); err != nil {
			return nil, err
		}
	}

	for _, p := range r.Analysis.Plots {
		for name, smp := range r.Analysis.Samples {
			pr, err := r.producePlot(p, name, smp)
			if err != nil {
				return nil, errors.Wrapf(err, "plot %s, sample %s", p.Name, name)
			}
			res.Plots = append(res.Plots, pr)
		}
	}

	// deterministic output order: by plot name, then sample
	res.Plots = ops.SortBy(res.Plots, func(p *PlotResult) string {
		return p.Plot + "\x00" + p.Sample
	})

	res.Duration = time.Since(start).Round(time.Millisecond).String()
	slog.Info("analysis done", "plots", len(res.Plots), "duration", res.Duration)
	return res, nil
}

// importSamples reads every sample's files and stores the events,
// a bounded number of samples at a time. Inserts serialize on the
// store's single-connection pool (see data.GetDB); the file fetching
// and parsing is what runs in parallel.
func (r *Runner) importSamples(ctx context.Context, res *Result) error {
	workers := r.Workers
	if workers <= 0 {
		workers = workersDefault
	}

	type imported struct {
		name  string
		count int64
	}
	results := make(chan imported, len(r.Analysis.Samples))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for name, smp := range r.Analysis.Samples {
		name, smp := name, smp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			count, err := r.importSample(name, smp)
			if err != nil {
				return errors.Wrapf(err, "sample %s", name)
			}
			results <- imported{name: name, count: count}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	close(results)

	for im := range results {
		res.Imported[im.name] = im.count
	}
	return nil
}

func (r *Runner) importSample(name string, smp *config.Sample) (int64, error) {
	if err := data.SaveSample(r.DB, &data.Sample{
		Name:            name,
		Group:           smp.Group,
		Era:             smp.Era,
		CrossSection:    smp.CrossSection,
		GeneratedEvents: smp.GeneratedEvents,
	}); err != nil {
		return 0, err
	}

	cacheDir := r.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "evtl-cache")
	}

	var total int64
	for _, fp := range smp.Files {
		path, err := net.Fetch(fp, cacheDir)
		if err != nil {
			return 0, err
		}
		events, err := data.ReadEventsCSV(path)
		if err != nil {
			return 0, err
		}
		n, err := data.ImportEvents(r.DB, name, events)
		if err != nil {
			return 0, err
		}
		total += n
	}
	slog.Debug("sample imported", "sample", name, "events", total)
	return total, nil
}

func (r *Runner) producePlot(p *config.Plot, sample string, smp *config.Sample) (*PlotResult, error) {
	fr := data.NewFrame(r.DB, sample)
	if p.Cut != nil {
		fr = fr.WithCut(p.Cut.Column, p.Cut.Lo, p.Cut.Hi)
	}

	model := frame.H1Model{
		Name:  p.Name,
		Title: p.Title,
		Bins:  p.Bins,
		Min:   p.Min,
		Max:   p.Max,
	}

	var h *frame.Histogram
	var err error
	if p.Weight != "" {
		h, err = frame.Histo1DWeighted(fr, model, p.Column, p.Weight)
	} else {
		h, err = frame.Histo1D(fr, model, p.Column)
	}
	if err != nil {
		return nil, err
	}

	// normalize simulation to cross-section per generated event
	if smp.Group != "data" && smp.CrossSection > 0 && smp.GeneratedEvents > 0 {
		h.Scale(smp.CrossSection / float64(smp.GeneratedEvents))
	}

	bin, count := ops.MaxElementBy(h.Counts, func(c float64) float64 { return c })
	return &PlotResult{
		Plot:      p.Name,
		Sample:    sample,
		Histogram: h,
		PeakBin:   bin,
		PeakCount: count,
	}, nil
}
