package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistogram_InvalidModels(t *testing.T) {
	tests := []struct {
		name  string
		model H1Model
	}{
		{"missing name", H1Model{Bins: 10, Min: 0, Max: 1}},
		{"zero bins", H1Model{Name: "h", Bins: 0, Min: 0, Max: 1}},
		{"negative bins", H1Model{Name: "h", Bins: -3, Min: 0, Max: 1}},
		{"inverted range", H1Model{Name: "h", Bins: 10, Min: 1, Max: 0}},
		{"empty range", H1Model{Name: "h", Bins: 10, Min: 1, Max: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHistogram(tt.model)
			assert.Error(t, err)
		})
	}
}

func TestHistogram_Fill(t *testing.T) {
	h, err := NewHistogram(H1Model{Name: "pt", Bins: 4, Min: 0, Max: 100})
	require.NoError(t, err)

	h.Fill(10)  // bin 0
	h.Fill(30)  // bin 1
	h.Fill(25)  // bin 1
	h.Fill(99)  // bin 3
	h.Fill(-5)  // underflow
	h.Fill(100) // overflow: upper edge is exclusive
	h.Fill(250) // overflow

	assert.Equal(t, []float64{1, 2, 0, 1}, h.Counts)
	assert.Equal(t, 1.0, h.Underflow)
	assert.Equal(t, 2.0, h.Overflow)
	assert.Equal(t, int64(7), h.Entries)
	assert.Equal(t, 7.0, h.SumW())
}

func TestHistogram_LowerEdgeInclusive(t *testing.T) {
	h, err := NewHistogram(H1Model{Name: "x", Bins: 2, Min: 0, Max: 2})
	require.NoError(t, err)
	h.Fill(0)
	h.Fill(1)
	assert.Equal(t, []float64{1, 1}, h.Counts)
	assert.Equal(t, 0.0, h.Underflow)
}

func TestHistogram_FillW(t *testing.T) {
	h, err := NewHistogram(H1Model{Name: "m", Bins: 2, Min: 0, Max: 10})
	require.NoError(t, err)

	h.FillW(2, 0.5)
	h.FillW(7, 1.5)
	h.FillW(7, 2.0)

	assert.Equal(t, []float64{0.5, 3.5}, h.Counts)
	assert.Equal(t, int64(3), h.Entries)
	assert.InDelta(t, 4.0, h.SumW(), 1e-12)
}

func TestHistogram_Scale(t *testing.T) {
	h, err := NewHistogram(H1Model{Name: "x", Bins: 2, Min: 0, Max: 10})
	require.NoError(t, err)
	h.Fill(2)
	h.Fill(7)
	h.Fill(-1)

	mean := h.Mean()
	h.Scale(0.5)

	assert.Equal(t, []float64{0.5, 0.5}, h.Counts)
	assert.Equal(t, 0.5, h.Underflow)
	assert.Equal(t, int64(3), h.Entries)
	assert.InDelta(t, 1.5, h.SumW(), 1e-12)
	// scaling is uniform, the mean is unchanged
	assert.InDelta(t, mean, h.Mean(), 1e-12)
}

func TestHistogram_Moments(t *testing.T) {
	h, err := NewHistogram(H1Model{Name: "x", Bins: 10, Min: 0, Max: 10})
	require.NoError(t, err)
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		h.Fill(v)
	}
	assert.InDelta(t, 5.0, h.Mean(), 1e-12)
	assert.InDelta(t, 2.0, h.StdDev(), 1e-12)
}

func TestHistogram_MomentsEmpty(t *testing.T) {
	h, err := NewHistogram(H1Model{Name: "x", Bins: 10, Min: 0, Max: 10})
	require.NoError(t, err)
	assert.Equal(t, 0.0, h.Mean())
	assert.Equal(t, 0.0, h.StdDev())
}

func TestHistogram_BinEdgesAndCenters(t *testing.T) {
	h, err := NewHistogram(H1Model{Name: "x", Bins: 4, Min: 0, Max: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, h.BinEdges())
	assert.InDelta(t, 0.25, h.BinCenter(0), 1e-12)
	assert.InDelta(t, 1.75, h.BinCenter(3), 1e-12)
}
