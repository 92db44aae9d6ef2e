// Package config loads the YAML analysis description: the samples to
// process and the histograms to produce from them.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hepworks/evtl/pkg/net"
)

// Analysis is the top-level analysis description.
type Analysis struct {
	Name         string             `yaml:"name"`
	Samples      map[string]*Sample `yaml:"samples"`
	Plots        []*Plot            `yaml:"plots"`
	PlotDefaults map[string]any     `yaml:"plotdefaults,omitempty"`
}

// Sample describes one dataset: where its event files live and the
// bookkeeping used to normalize its histograms.
type Sample struct {
	Files           []string `yaml:"files,omitempty"`
	FilesFrom       string   `yaml:"files_from,omitempty"`
	Group           string   `yaml:"group,omitempty"`
	Era             string   `yaml:"era,omitempty"`
	CrossSection    float64  `yaml:"cross_section,omitempty"`
	GeneratedEvents int64    `yaml:"generated_events,omitempty"`
}

// Plot describes one histogram to produce: binning, value column,
// optional weight column and optional selection.
type Plot struct {
	Name    string         `yaml:"name"`
	Title   string         `yaml:"title,omitempty"`
	Column  string         `yaml:"column"`
	Weight  string         `yaml:"weight,omitempty"`
	Bins    int            `yaml:"bins"`
	Min     float64        `yaml:"min"`
	Max     float64        `yaml:"max"`
	Cut     *CutSpec       `yaml:"cut,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// CutSpec is an open-interval selection on a named column.
type CutSpec struct {
	Column string  `yaml:"column"`
	Lo     float64 `yaml:"lo"`
	Hi     float64 `yaml:"hi"`
}

// Load reads and validates an analysis description. Sample file paths
// and list files are resolved relative to the config file directory.
func Load(path string) (*Analysis, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config: %s", path)
	}

	a := &Analysis{}
	if err := yaml.Unmarshal(b, a); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config: %s", path)
	}

	cfgDir := filepath.Dir(path)
	for name, smp := range a.Samples {
		if err := smp.resolveFiles(cfgDir); err != nil {
			return nil, errors.Wrapf(err, "sample %s", name)
		}
	}

	if err := a.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config: %s", path)
	}
	return a, nil
}

func (a *Analysis) validate() error {
	if len(a.Samples) == 0 {
		return errors.New("no samples defined")
	}
	if len(a.Plots) == 0 {
		return errors.New("no plots defined")
	}
	for name, smp := range a.Samples {
		if len(smp.Files) == 0 {
			return errors.Errorf("sample %s has no files", name)
		}
	}
	for _, p := range a.Plots {
		if p.Name == "" {
			return errors.New("plot without a name")
		}
		if p.Column == "" {
			return errors.Errorf("plot %s has no column", p.Name)
		}
		if p.Bins <= 0 {
			return errors.Errorf("plot %s: bins must be positive", p.Name)
		}
		if !(p.Min < p.Max) {
			return errors.Errorf("plot %s: min must be below max", p.Name)
		}
		if p.Cut != nil && p.Cut.Column == "" {
			return errors.Errorf("plot %s: cut without a column", p.Name)
		}
	}
	return nil
}

// resolveFiles makes sample file paths absolute relative to dir and
// expands a files_from list file (one path per line, blanks skipped).
// Remote URLs are kept as-is; the runner fetches them at import time.
func (s *Sample) resolveFiles(dir string) error {
	if s.FilesFrom != "" {
		listPath := s.FilesFrom
		if !filepath.IsAbs(listPath) {
			listPath = filepath.Join(dir, listPath)
		}
		files, err := readFileList(listPath)
		if err != nil {
			return err
		}
		s.Files = append(s.Files, files...)
	}
	for i, fp := range s.Files {
		if !filepath.IsAbs(fp) && !net.IsRemote(fp) {
			s.Files[i] = filepath.Join(dir, fp)
		}
	}
	return nil
}

func readFileList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file list: %s", path)
	}
	defer file.Close()

	var files []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		ln := strings.TrimSpace(scanner.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		files = append(files, ln)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read file list: %s", path)
	}
	return files, nil
}
