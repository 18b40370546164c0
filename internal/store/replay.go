package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/bmicount/internal/batch"
)

// ReplayResult compares a recorded run with a fresh recomputation of its records.
type ReplayResult struct {
	Run           Run           `json:"run"`
	Recomputed    *batch.Result `json:"recomputed"`
	Deterministic bool          `json:"deterministic"`
	Differences   []string      `json:"differences,omitempty"`
}

// Replay recomputes a recorded run from its stored records and bounds and
// reports whether the values and count match what was recorded.
func (s *Store) Replay(ctx context.Context, id string) (ReplayResult, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	res, err := batch.AggregateWithin(batch.Structured(run.Records), run.Bounds)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay %s: %w", id, err)
	}

	out := ReplayResult{Run: run, Recomputed: res}
	if res.Count != run.InRange {
		out.Differences = append(out.Differences,
			fmt.Sprintf("in_range: recorded %d, recomputed %d", run.InRange, res.Count))
	}
	if res.Total != run.Total {
		out.Differences = append(out.Differences,
			fmt.Sprintf("total: recorded %d, recomputed %d", run.Total, res.Total))
	}
	if !slices.Equal(res.Values, run.Values) {
		out.Differences = append(out.Differences, "values differ")
	}
	out.Deterministic = len(out.Differences) == 0
	return out, nil
}
