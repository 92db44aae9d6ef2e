package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepworks/evtl/pkg/physics"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable()
	require.NoError(t, tbl.AddColumn("pt", []float64{25, 40, 55, 80}))
	require.NoError(t, tbl.AddColumn("eta", []float64{0.5, -1.2, 2.1, 0.1}))
	require.NoError(t, tbl.AddColumn("weight", []float64{1, 1, 0.5, 2}))
	return tbl
}

func TestTable_AddColumn(t *testing.T) {
	tbl := testTable(t)
	assert.Equal(t, 4, tbl.Rows())
	assert.ElementsMatch(t, []string{"pt", "eta", "weight"}, tbl.Columns())

	assert.Error(t, tbl.AddColumn("", []float64{1}))
	assert.Error(t, tbl.AddColumn("pt", []float64{1, 2, 3, 4}))
	assert.Error(t, tbl.AddColumn("short", []float64{1, 2}))
}

func TestTable_ColumnUnknown(t *testing.T) {
	tbl := testTable(t)
	_, err := tbl.Column("nope")
	assert.Error(t, err)
}

func TestTable_Define(t *testing.T) {
	tbl := testTable(t)
	err := tbl.Define("pt2", func(row func(string) float64) float64 {
		return row("pt") * 2
	})
	require.NoError(t, err)

	vals, err := tbl.Column("pt2")
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 80, 110, 160}, vals)

	assert.Error(t, tbl.Define("pt", nil))
}

func TestTable_DefineWithVectors(t *testing.T) {
	// mass substitution as a derived column, via the kinematics helpers
	tbl := NewTable()
	require.NoError(t, tbl.AddColumn("pt", []float64{10, 20}))
	require.NoError(t, tbl.AddColumn("eta", []float64{0.5, -0.5}))
	require.NoError(t, tbl.AddColumn("phi", []float64{1.0, 2.0}))
	require.NoError(t, tbl.AddColumn("e", []float64{20, 40}))

	err := tbl.Define("e_mu", func(row func(string) float64) float64 {
		p := physics.NewPtEtaPhiE(row("pt"), row("eta"), row("phi"), row("e"))
		return physics.WithMass(p, 0.105).E()
	})
	require.NoError(t, err)

	vals, err := tbl.Column("e_mu")
	require.NoError(t, err)
	want := physics.NewPtEtaPhiM(10, 0.5, 1.0, 0.105).E()
	assert.InDelta(t, want, vals[0], 1e-12)
}

func TestTable_RowUnknownColumn(t *testing.T) {
	tbl := testTable(t)

	// unknown columns read as 0 in row callbacks, no panic
	require.NoError(t, tbl.Define("shifted", func(row func(string) float64) float64 {
		return row("pt") + row("nope")
	}))
	vals, err := tbl.Column("shifted")
	require.NoError(t, err)
	assert.Equal(t, []float64{25, 40, 55, 80}, vals)

	out := tbl.Filter(func(row func(string) float64) bool {
		return row("nope") == 0
	})
	assert.Equal(t, tbl.Rows(), out.Rows())
}

func TestTable_Filter(t *testing.T) {
	tbl := testTable(t)
	sel := tbl.Filter(func(row func(string) float64) bool {
		return physics.InRange(30.0, row("pt"), 60.0)
	})

	assert.Equal(t, 2, sel.Rows())
	pts, err := sel.Column("pt")
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 55}, pts)

	// original frame untouched
	assert.Equal(t, 4, tbl.Rows())
}

func TestTable_Histo1D(t *testing.T) {
	tbl := testTable(t)
	h, err := tbl.Histo1D(H1Model{Name: "h_pt", Bins: 2, Min: 0, Max: 100}, "pt")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, h.Counts)
	assert.Equal(t, int64(4), h.Entries)
}

func TestTable_Histo1DWeighted(t *testing.T) {
	tbl := testTable(t)
	h, err := tbl.Histo1DWeighted(H1Model{Name: "h_pt", Bins: 2, Min: 0, Max: 100}, "pt", "weight")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2.5}, h.Counts)
}

func TestTable_HistoUnknownColumns(t *testing.T) {
	tbl := testTable(t)
	m := H1Model{Name: "h", Bins: 2, Min: 0, Max: 1}

	_, err := tbl.Histo1D(m, "nope")
	assert.Error(t, err)
	_, err = tbl.Histo1DWeighted(m, "pt", "nope")
	assert.Error(t, err)
}

func TestForwarding(t *testing.T) {
	// the free functions delegate to the frame's own operation
	tbl := testTable(t)
	m := H1Model{Name: "h_pt", Bins: 2, Min: 0, Max: 100}

	direct, err := tbl.Histo1D(m, "pt")
	require.NoError(t, err)
	forwarded, err := Histo1D(tbl, m, "pt")
	require.NoError(t, err)
	assert.Equal(t, direct.Counts, forwarded.Counts)

	directW, err := tbl.Histo1DWeighted(m, "pt", "weight")
	require.NoError(t, err)
	forwardedW, err := Histo1DWeighted(tbl, m, "pt", "weight")
	require.NoError(t, err)
	assert.Equal(t, directW.Counts, forwardedW.Counts)
}
