package run

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hepworks/evtl/pkg/config"
)

const (
	dirMode  = 0700
	fileMode = 0600

	plotsFileName = "plots.yml"
)

// plotDefaults are the plotting options applied to every plot unless
// overridden by the analysis config or the plot itself.
var plotDefaults = map[string]any{
	"y-axis":          "Events",
	"log-y":           "both",
	"show-ratio":      true,
	"save-extensions": []string{"pdf"},
}

// WriteResults writes one histogram JSON file per sample plus the
// plots.yml describing how to render them.
func WriteResults(dir string, a *config.Analysis, res *Result) error {
	if dir == "" {
		return errors.New("output directory required")
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create output dir: %s", dir)
	}

	bySample := make(map[string]map[string]any)
	for _, pr := range res.Plots {
		if bySample[pr.Sample] == nil {
			bySample[pr.Sample] = make(map[string]any)
		}
		bySample[pr.Sample][pr.Plot] = pr.Histogram
	}

	for sample, hists := range bySample {
		path := filepath.Join(dir, sample+".json")
		b, err := json.MarshalIndent(hists, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "failed to marshal results for: %s", sample)
		}
		if err := os.WriteFile(path, b, fileMode); err != nil {
			return errors.Wrapf(err, "failed to write results file: %s", path)
		}
	}

	plotsCfg := buildPlotsConfig(dir, a)
	b, err := yaml.Marshal(plotsCfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal plots config")
	}
	path := filepath.Join(dir, plotsFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write plots config: %s", path)
	}
	return nil
}

// buildPlotsConfig assembles the render description: a files section
// with the per-sample bookkeeping and a plots section with the merged
// plotting options.
func buildPlotsConfig(dir string, a *config.Analysis) map[string]any {
	files := make(map[string]any, len(a.Samples))
	for name, smp := range a.Samples {
		opts := map[string]any{
			"group": smp.Group,
			"type":  "mc",
		}
		if smp.Group == "data" {
			opts["type"] = "data"
		} else {
			opts["cross-section"] = smp.CrossSection
			opts["generated-events"] = smp.GeneratedEvents
		}
		files[name+".json"] = opts
	}

	plots := make(map[string]any, len(a.Plots))
	for _, p := range a.Plots {
		opts := make(map[string]any, len(plotDefaults)+len(p.Options)+2)
		for k, v := range plotDefaults {
			opts[k] = v
		}
		for k, v := range a.PlotDefaults {
			opts[k] = v
		}
		for k, v := range p.Options {
			opts[k] = v
		}
		if p.Title != "" {
			opts["x-axis"] = p.Title
		}
		opts["x-axis-range"] = []float64{p.Min, p.Max}
		plots[p.Name] = opts
	}

	return map[string]any{
		"configuration": map[string]any{
			"root": dir,
		},
		"files": files,
		"plots": plots,
	}
}
