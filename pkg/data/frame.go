package data

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hepworks/evtl/pkg/frame"
	"github.com/hepworks/evtl/pkg/physics"
)

// Cut is an open-interval selection on a named column, applied with
// strict bounds on both ends.
type Cut struct {
	Column string  `json:"column" yaml:"column"`
	Lo     float64 `json:"lo" yaml:"lo"`
	Hi     float64 `json:"hi" yaml:"hi"`
}

// Frame is a columnar view over the stored events of one sample (or
// all samples when the name is empty). It implements frame.HistoMaker.
type Frame struct {
	db     *sql.DB
	sample string
	cuts   []Cut
}

// NewFrame returns a frame over the stored events of sample.
func NewFrame(db *sql.DB, sample string) *Frame {
	return &Frame{db: db, sample: sample}
}

// WithCut returns a derived frame that keeps only events whose column
// value lies strictly between lo and hi.
func (fr *Frame) WithCut(column string, lo, hi float64) *Frame {
	cuts := make([]Cut, len(fr.cuts), len(fr.cuts)+1)
	copy(cuts, fr.cuts)
	return &Frame{
		db:     fr.db,
		sample: fr.sample,
		cuts:   append(cuts, Cut{Column: column, Lo: lo, Hi: hi}),
	}
}

// Histo1D fills a histogram from the named column using the stored
// event weights.
func (fr *Frame) Histo1D(model frame.H1Model, column string) (*frame.Histogram, error) {
	return fr.fill(model, column, "")
}

// Histo1DWeighted fills a histogram from the value column, weighted by
// the product of the stored event weight and the weight column.
func (fr *Frame) Histo1DWeighted(model frame.H1Model, column, weightColumn string) (*frame.Histogram, error) {
	if weightColumn == "" {
		return nil, errors.New("weight column required")
	}
	return fr.fill(model, column, weightColumn)
}

// fill builds one query joining the value column, the optional weight
// column, and every cut column, so each scanned row is one complete
// event. Events missing any of the joined columns drop out, which is
// the wanted behavior for a selection.
func (fr *Frame) fill(model frame.H1Model, column, weightColumn string) (*frame.Histogram, error) {
	if fr.db == nil {
		return nil, errDBNotInitialized
	}
	if column == "" {
		return nil, errors.New("value column required")
	}

	known, err := fr.hasColumn(column)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, errors.Errorf("unknown column: %s", column)
	}
	if weightColumn != "" {
		known, err = fr.hasColumn(weightColumn)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, errors.Errorf("unknown weight column: %s", weightColumn)
		}
	}
	for _, c := range fr.cuts {
		known, err = fr.hasColumn(c.Column)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, errors.Errorf("unknown cut column: %s", c.Column)
		}
	}

	h, err := frame.NewHistogram(model)
	if err != nil {
		return nil, err
	}

	query, args := fr.fillQuery(column, weightColumn)
	rows, err := fr.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query column: %s", column)
	}
	defer rows.Close()

	nCuts := len(fr.cuts)
	for rows.Next() {
		var x, w, cw float64
		cutVals := make([]float64, nCuts)

		dest := []any{&x, &w}
		if weightColumn != "" {
			dest = append(dest, &cw)
		}
		for i := range cutVals {
			dest = append(dest, &cutVals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "failed to scan column row")
		}

		pass := true
		for i, c := range fr.cuts {
			if !physics.InRange(c.Lo, cutVals[i], c.Hi) {
				pass = false
				break
			}
		}
		if !pass {
			continue
		}

		if weightColumn != "" {
			w *= cw
		}
		h.FillW(x, w)
	}
	return h, rows.Err()
}

func (fr *Frame) fillQuery(column, weightColumn string) (string, []any) {
	var sb strings.Builder
	args := []any{}

	sb.WriteString("SELECT v.value, e.weight")
	if weightColumn != "" {
		sb.WriteString(", w.value")
	}
	for i := range fr.cuts {
		fmt.Fprintf(&sb, ", c%d.value", i)
	}
	sb.WriteString(`
		FROM event_value v
		JOIN event e ON e.id = v.event_id`)
	if weightColumn != "" {
		sb.WriteString(`
		JOIN event_value w ON w.event_id = v.event_id AND w.name = ?`)
		args = append(args, weightColumn)
	}
	for i := range fr.cuts {
		fmt.Fprintf(&sb, `
		JOIN event_value c%d ON c%d.event_id = v.event_id AND c%d.name = ?`, i, i, i)
		args = append(args, fr.cuts[i].Column)
	}
	sb.WriteString(`
		WHERE v.name = ?
		AND e.sample = COALESCE(?, e.sample)
		ORDER BY v.event_id`)
	args = append(args, column, optional(fr.sample))

	return sb.String(), args
}

func (fr *Frame) hasColumn(name string) (bool, error) {
	var n int64
	err := fr.db.QueryRow(
		`SELECT COUNT(*) FROM event_value v JOIN event e ON e.id = v.event_id
		 WHERE v.name = ? AND e.sample = COALESCE(?, e.sample)`,
		name, optional(fr.sample)).Scan(&n)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check column: %s", name)
	}
	return n > 0, nil
}
