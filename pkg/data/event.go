package data

import (
	"database/sql"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

const (
	queryLimitDefault = 500

	insertEventSQL = `INSERT INTO event (sample, run, lumi, evt, weight) VALUES (?, ?, ?, ?, ?)`

	insertEventValueSQL = `INSERT INTO event_value (event_id, name, value) VALUES (?, ?, ?)`

	selectEventsSQL = `SELECT id, sample, run, lumi, evt, weight
		FROM event
		WHERE sample = COALESCE(?, sample)
		AND run = COALESCE(?, run)
		ORDER BY id
		LIMIT ?
	`

	selectEventValuesSQL = `SELECT name, value FROM event_value WHERE event_id = ?`

	selectColumnsSQL = `SELECT DISTINCT v.name
		FROM event_value v
		JOIN event e ON e.id = v.event_id
		WHERE e.sample = COALESCE(?, e.sample)
		ORDER BY v.name
	`

	countEventsSQL = `SELECT COUNT(*) FROM event WHERE sample = COALESCE(?, sample)`
)

// Event is one stored collision event: provenance identifiers, a
// weight, and the named kinematic values that were imported with it.
type Event struct {
	ID     int64              `json:"id,omitempty" yaml:"id,omitempty"`
	Sample string             `json:"sample" yaml:"sample"`
	Run    int64              `json:"run" yaml:"run"`
	Lumi   int64              `json:"lumi" yaml:"lumi"`
	Evt    int64              `json:"evt" yaml:"evt"`
	Weight float64            `json:"weight" yaml:"weight"`
	Values map[string]float64 `json:"values,omitempty" yaml:"values,omitempty"`
}

// EventQuery carries the optional event list filters.
type EventQuery struct {
	Sample string `json:"sample,omitempty" yaml:"sample,omitempty"`
	Run    int64  `json:"run,omitempty" yaml:"run,omitempty"`
	Limit  int    `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// ReadEventsCSV parses events from a CSV file. The header row names
// the columns; run, lumi, evt and weight are recognized as event
// fields, everything else becomes a named value.
func ReadEventsCSV(path string) ([]*Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open event file: %s", path)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read header from: %s", path)
	}

	events := make([]*Event, 0)
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read record from: %s", path)
		}
		line++

		e := &Event{Weight: 1, Values: make(map[string]float64, len(header))}
		for i, name := range header {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid value for %s on line %d of %s", name, line, path)
			}
			switch name {
			case "run":
				e.Run = int64(v)
			case "lumi":
				e.Lumi = int64(v)
			case "evt":
				e.Evt = int64(v)
			case "weight":
				e.Weight = v
			default:
				e.Values[name] = v
			}
		}
		events = append(events, e)
	}
	return events, nil
}

// ImportEvents stores events under the named sample in one
// transaction. Returns the number of events written.
func ImportEvents(db *sql.DB, sample string, events []*Event) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if sample == "" {
		return 0, errors.New("sample name required")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}

	rollback := func(cause error) (int64, error) {
		if rbErr := tx.Rollback(); rbErr != nil {
			return 0, errors.Wrap(rbErr, "failed to rollback transaction")
		}
		return 0, cause
	}

	evStmt, err := tx.Prepare(insertEventSQL)
	if err != nil {
		return rollback(errors.Wrap(err, "failed to prepare event statement"))
	}
	valStmt, err := tx.Prepare(insertEventValueSQL)
	if err != nil {
		return rollback(errors.Wrap(err, "failed to prepare value statement"))
	}

	var count int64
	for _, e := range events {
		res, err := evStmt.Exec(sample, e.Run, e.Lumi, e.Evt, e.Weight)
		if err != nil {
			return rollback(errors.Wrap(err, "failed to insert event"))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return rollback(errors.Wrap(err, "failed to get event id"))
		}
		for name, val := range e.Values {
			if _, err := valStmt.Exec(id, name, val); err != nil {
				return rollback(errors.Wrapf(err, "failed to insert value: %s", name))
			}
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}

	slog.Debug("events imported", "sample", sample, "count", count)
	return count, nil
}

// QueryEvents lists stored events matching the query filters,
// including their named values.
func QueryEvents(db *sql.DB, q *EventQuery) ([]*Event, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if q == nil {
		q = &EventQuery{}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = queryLimitDefault
	}

	var run *int64
	if q.Run > 0 {
		run = &q.Run
	}

	rows, err := db.Query(selectEventsSQL, optional(q.Sample), run, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Sample, &e.Run, &e.Lumi, &e.Evt, &e.Weight); err != nil {
			return nil, errors.Wrap(err, "failed to scan event row")
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read event rows")
	}

	for _, e := range events {
		vals, err := eventValues(db, e.ID)
		if err != nil {
			return nil, err
		}
		e.Values = vals
	}
	return events, nil
}

func eventValues(db *sql.DB, eventID int64) (map[string]float64, error) {
	rows, err := db.Query(selectEventValuesSQL, eventID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query values for event: %d", eventID)
	}
	defer rows.Close()

	vals := make(map[string]float64)
	for rows.Next() {
		var name string
		var val float64
		if err := rows.Scan(&name, &val); err != nil {
			return nil, errors.Wrap(err, "failed to scan value row")
		}
		vals[name] = val
	}
	return vals, rows.Err()
}

// ListColumns returns the distinct value column names stored for a
// sample (all samples when empty).
func ListColumns(db *sql.DB, sample string) ([]string, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	rows, err := db.Query(selectColumnsSQL, optional(sample))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query columns")
	}
	defer rows.Close()

	cols := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan column row")
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// CountEvents returns the number of stored events for a sample (all
// samples when empty).
func CountEvents(db *sql.DB, sample string) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	var n int64
	if err := db.QueryRow(countEventsSQL, optional(sample)).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count events")
	}
	return n, nil
}
