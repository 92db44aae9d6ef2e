// Package frame provides the histogram accumulator and the columnar
// frame abstraction the rest of the toolkit fills histograms through.
package frame

import (
	"math"

	"github.com/pkg/errors"
)

// H1Model describes a fixed-binning 1-D histogram to be produced.
type H1Model struct {
	Name  string  `json:"name" yaml:"name"`
	Title string  `json:"title,omitempty" yaml:"title,omitempty"`
	Bins  int     `json:"bins" yaml:"bins"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

func (m H1Model) validate() error {
	if m.Name == "" {
		return errors.New("histogram model requires a name")
	}
	if m.Bins <= 0 {
		return errors.Errorf("histogram %s: bins must be positive, got %d", m.Name, m.Bins)
	}
	if !(m.Min < m.Max) {
		return errors.Errorf("histogram %s: min %v not below max %v", m.Name, m.Min, m.Max)
	}
	return nil
}

// Histogram is a 1-D histogram with uniform bins plus underflow and
// overflow. Weights default to 1 in Fill.
type Histogram struct {
	Model     H1Model   `json:"model" yaml:"model"`
	Counts    []float64 `json:"counts" yaml:"counts"`
	Underflow float64   `json:"underflow" yaml:"underflow"`
	Overflow  float64   `json:"overflow" yaml:"overflow"`
	Entries   int64     `json:"entries" yaml:"entries"`

	sumW  float64
	sumWX float64
	sumX2 float64
	width float64
}

// NewHistogram builds an empty histogram for the model.
func NewHistogram(m H1Model) (*Histogram, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &Histogram{
		Model:  m,
		Counts: make([]float64, m.Bins),
		width:  (m.Max - m.Min) / float64(m.Bins),
	}, nil
}

// Fill adds x with unit weight.
func (h *Histogram) Fill(x float64) {
	h.FillW(x, 1)
}

// FillW adds x with weight w. Values below range go to underflow,
// at or above max to overflow (lower bin edge inclusive).
func (h *Histogram) FillW(x, w float64) {
	h.Entries++
	h.sumW += w
	h.sumWX += w * x
	h.sumX2 += w * x * x
	switch {
	case x < h.Model.Min:
		h.Underflow += w
	case x >= h.Model.Max:
		h.Overflow += w
	default:
		i := int((x - h.Model.Min) / h.width)
		if i == h.Model.Bins { // x just below max with rounding
			i--
		}
		h.Counts[i] += w
	}
}

// SumW returns the total filled weight, including under/overflow.
func (h *Histogram) SumW() float64 { return h.sumW }

// Scale multiplies all bin contents, under/overflow and the weight
// sums by f. Entries is left alone.
func (h *Histogram) Scale(f float64) {
	for i := range h.Counts {
		h.Counts[i] *= f
	}
	h.Underflow *= f
	h.Overflow *= f
	h.sumW *= f
	h.sumWX *= f
	h.sumX2 *= f
}

// Mean returns the weighted mean of the filled values.
func (h *Histogram) Mean() float64 {
	if h.sumW == 0 {
		return 0
	}
	return h.sumWX / h.sumW
}

// StdDev returns the weighted standard deviation of the filled values.
func (h *Histogram) StdDev() float64 {
	if h.sumW == 0 {
		return 0
	}
	mean := h.Mean()
	v := h.sumX2/h.sumW - mean*mean
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// BinEdges returns the bins+1 edges of the regular binning.
func (h *Histogram) BinEdges() []float64 {
	edges := make([]float64, h.Model.Bins+1)
	for i := range edges {
		edges[i] = h.Model.Min + float64(i)*h.width
	}
	edges[h.Model.Bins] = h.Model.Max
	return edges
}

// BinCenter returns the center of bin i.
func (h *Histogram) BinCenter(i int) float64 {
	return h.Model.Min + (float64(i)+0.5)*h.width
}
