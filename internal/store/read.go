package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns a run with its values and records.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var (
		run         Run
		recordsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, digest, lower_bound, upper_bound, total, in_range, records
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID,
		&run.Seq,
		&run.Digest,
		&run.Bounds.Lower,
		&run.Bounds.Upper,
		&run.Total,
		&run.InRange,
		&recordsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	run.Records, err = unmarshalRecords(recordsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	run.Values, err = s.readRunValues(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// readRunValues returns the BMI values of a run in record order.
func (s *Store) readRunValues(ctx context.Context, id string) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bmi FROM run_values
		WHERE run_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query run values: %w", err)
	}
	defer rows.Close()

	values := []float64{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan run value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run values: %w", err)
	}
	return values, nil
}

// ListRuns returns run summaries, newest (highest seq) first.
// Values and Records are not loaded. A limit <= 0 returns all runs.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, seq, digest, lower_bound, upper_bound, total, in_range
		FROM runs
		ORDER BY seq DESC, id COLLATE BINARY ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID,
			&run.Seq,
			&run.Digest,
			&run.Bounds.Lower,
			&run.Bounds.Upper,
			&run.Total,
			&run.InRange,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunsByDigest returns every run recorded for the same input batch, oldest first.
func (s *Store) RunsByDigest(ctx context.Context, digest string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, digest, lower_bound, upper_bound, total, in_range
		FROM runs
		WHERE digest = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, digest)
	if err != nil {
		return nil, fmt.Errorf("query runs by digest: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Seq, &run.Digest, &run.Bounds.Lower, &run.Bounds.Upper, &run.Total, &run.InRange); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
