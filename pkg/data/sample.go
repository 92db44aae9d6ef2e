package data

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const (
	upsertSampleSQL = `INSERT INTO sample (
			name, group_name, era, cross_section, generated_events, import_date
		)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			group_name = excluded.group_name,
			era = excluded.era,
			cross_section = excluded.cross_section,
			generated_events = excluded.generated_events,
			import_date = excluded.import_date
	`

	selectSampleSQL = `SELECT
			name, group_name, era, cross_section, generated_events, import_date
		FROM sample
		WHERE name = ?
	`

	selectSamplesSQL = `SELECT
			s.name, s.group_name, s.era, s.cross_section, s.generated_events, s.import_date,
			COUNT(e.id) AS events
		FROM sample s
		LEFT JOIN event e ON e.sample = s.name
		GROUP BY s.name
		ORDER BY s.name
	`
)

// Sample is a named dataset of events with the bookkeeping needed to
// normalize its histograms.
type Sample struct {
	Name            string  `json:"name" yaml:"name"`
	Group           string  `json:"group,omitempty" yaml:"group,omitempty"`
	Era             string  `json:"era,omitempty" yaml:"era,omitempty"`
	CrossSection    float64 `json:"cross_section,omitempty" yaml:"cross_section,omitempty"`
	GeneratedEvents int64   `json:"generated_events,omitempty" yaml:"generated_events,omitempty"`
	ImportDate      string  `json:"import_date,omitempty" yaml:"import_date,omitempty"`
	Events          int64   `json:"events,omitempty" yaml:"events,omitempty"`
}

// IsData reports whether the sample holds recorded (not simulated)
// events, by the group convention carried over from the config.
func (s *Sample) IsData() bool {
	return s.Group == "data"
}

// SaveSample inserts or updates the sample record.
func SaveSample(db *sql.DB, s *Sample) error {
	if db == nil {
		return errDBNotInitialized
	}
	if s == nil || s.Name == "" {
		return errors.New("sample with name required")
	}
	date := s.ImportDate
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}
	if _, err := db.Exec(upsertSampleSQL, s.Name, s.Group, s.Era, s.CrossSection, s.GeneratedEvents, date); err != nil {
		return errors.Wrapf(err, "failed to save sample: %s", s.Name)
	}
	return nil
}

// GetSample returns the named sample, or nil when not found.
func GetSample(db *sql.DB, name string) (*Sample, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	s := &Sample{}
	err := db.QueryRow(selectSampleSQL, name).Scan(
		&s.Name, &s.Group, &s.Era, &s.CrossSection, &s.GeneratedEvents, &s.ImportDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query sample: %s", name)
	}
	return s, nil
}

// ListSamples returns all samples with their stored event counts.
func ListSamples(db *sql.DB) ([]*Sample, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	rows, err := db.Query(selectSamplesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query samples")
	}
	defer rows.Close()

	list := make([]*Sample, 0)
	for rows.Next() {
		s := &Sample{}
		if err := rows.Scan(&s.Name, &s.Group, &s.Era, &s.CrossSection, &s.GeneratedEvents, &s.ImportDate, &s.Events); err != nil {
			return nil, errors.Wrap(err, "failed to scan sample row")
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteSample removes a sample and its events.
func DeleteSample(db *sql.DB, name string) error {
	if db == nil {
		return errDBNotInitialized
	}
	if name == "" {
		return errors.New("sample name required")
	}
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	for _, q := range []string{
		`DELETE FROM event_value WHERE event_id IN (SELECT id FROM event WHERE sample = ?)`,
		`DELETE FROM event WHERE sample = ?`,
		`DELETE FROM sample WHERE name = ?`,
	} {
		if _, err := tx.Exec(q, name); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrapf(err, "failed to delete sample: %s", name)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
