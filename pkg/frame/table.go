package frame

import (
	"github.com/pkg/errors"

	"github.com/hepworks/evtl/pkg/ops"
)

// Table is an in-memory columnar frame: named float64 columns of equal
// length. It implements HistoMaker directly.
type Table struct {
	columns map[string][]float64
	rows    int
}

// NewTable creates an empty frame with no rows.
func NewTable() *Table {
	return &Table{columns: make(map[string][]float64)}
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Columns returns the column names in unspecified order.
func (t *Table) Columns() []string {
	names := make([]string, 0, len(t.columns))
	for n := range t.columns {
		names = append(names, n)
	}
	return names
}

// AddColumn attaches values as a named column. The first column fixes
// the row count; later columns must match it.
func (t *Table) AddColumn(name string, values []float64) error {
	if name == "" {
		return errors.New("column name required")
	}
	if _, ok := t.columns[name]; ok {
		return errors.Errorf("column %s already defined", name)
	}
	if len(t.columns) > 0 && len(values) != t.rows {
		return errors.Errorf("column %s has %d values, frame has %d rows", name, len(values), t.rows)
	}
	t.rows = len(values)
	t.columns[name] = values
	return nil
}

// Column returns the values of a named column.
func (t *Table) Column(name string) ([]float64, error) {
	v, ok := t.columns[name]
	if !ok {
		return nil, errors.Errorf("unknown column: %s", name)
	}
	return v, nil
}

// row returns the column lookup for row i. Unknown columns read as 0
// rather than panicking.
func (t *Table) row(i int) func(string) float64 {
	return func(col string) float64 {
		vals, ok := t.columns[col]
		if !ok {
			return 0
		}
		return vals[i]
	}
}

// Define adds a column computed row-by-row from the existing ones. The
// row callback receives a lookup over the input columns.
func (t *Table) Define(name string, fn func(row func(string) float64) float64) error {
	if _, ok := t.columns[name]; ok {
		return errors.Errorf("column %s already defined", name)
	}
	vals := make([]float64, t.rows)
	for i := 0; i < t.rows; i++ {
		vals[i] = fn(t.row(i))
	}
	return t.AddColumn(name, vals)
}

// Filter returns a new frame with the rows for which pred holds.
func (t *Table) Filter(pred func(row func(string) float64) bool) *Table {
	idx := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if pred(t.row(i)) {
			idx = append(idx, i)
		}
	}
	out := NewTable()
	for name, vals := range t.columns {
		out.columns[name] = ops.MapRange(idx, func(i int) float64 { return vals[i] })
	}
	out.rows = len(idx)
	return out
}

// Histo1D fills a histogram from the named column with unit weights.
func (t *Table) Histo1D(model H1Model, column string) (*Histogram, error) {
	vals, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	h, err := NewHistogram(model)
	if err != nil {
		return nil, err
	}
	for _, x := range vals {
		h.Fill(x)
	}
	return h, nil
}

// Histo1DWeighted fills a histogram from the value column weighted by
// the weight column.
func (t *Table) Histo1DWeighted(model H1Model, column, weightColumn string) (*Histogram, error) {
	vals, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	weights, err := t.Column(weightColumn)
	if err != nil {
		return nil, err
	}
	h, err := NewHistogram(model)
	if err != nil {
		return nil, err
	}
	for i, x := range vals {
		h.FillW(x, weights[i])
	}
	return h, nil
}
