package store

import (
	"context"
	"fmt"

	"github.com/roach88/bmicount/internal/batch"
	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
)

// Run is one recorded aggregation.
type Run struct {
	ID      string      `json:"id"`
	Seq     int64       `json:"seq"`
	Digest  string      `json:"digest"`
	Bounds  bmi.Bounds  `json:"bounds"`
	Total   int         `json:"total"`
	InRange int         `json:"in_range"`
	Values  []float64   `json:"values,omitempty"`
	Records []ir.Record `json:"-"`
}

// RunFromResult builds a Run from an aggregation result, computing the batch digest.
// Seq is assigned by WriteRun.
func RunFromResult(id string, res *batch.Result) (Run, error) {
	digest, err := ir.BatchDigest(res.Records)
	if err != nil {
		return Run{}, fmt.Errorf("run from result: %w", err)
	}
	return Run{
		ID:      id,
		Digest:  digest,
		Bounds:  res.Bounds,
		Total:   res.Total,
		InRange: res.Count,
		Values:  res.Values,
		Records: res.Records,
	}, nil
}

// WriteRun inserts a run and its values in a single transaction and returns
// the stored run with its assigned seq.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing an existing ID
// returns the run already stored under it.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	recordsJSON, err := marshalRecords(run.Records)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, digest, lower_bound, upper_bound, total, in_range, records)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.Digest,
		run.Bounds.Lower,
		run.Bounds.Upper,
		run.Total,
		run.InRange,
		recordsJSON,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	if inserted == 0 {
		// Already recorded; keep the original.
		if err := tx.Commit(); err != nil {
			return Run{}, fmt.Errorf("write run: commit: %w", err)
		}
		return s.ReadRun(ctx, run.ID)
	}

	for i, v := range run.Values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO run_values (run_id, idx, bmi, in_range)
			VALUES (?, ?, ?, ?)
		`, run.ID, i, v, run.Bounds.Contains(v)); err != nil {
			return Run{}, fmt.Errorf("write run value %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}

	run.Seq = seq
	return run, nil
}
