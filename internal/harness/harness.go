package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/bmicount/internal/batch"
	"github.com/roach88/bmicount/internal/ir"
	"github.com/roach88/bmicount/internal/store"
	"github.com/roach88/bmicount/internal/testutil"
)

// Harness executes scenarios against a private in-memory store.
type Harness struct {
	store *store.Store
	ids   *testutil.SequentialIDs
}

// New opens a harness backed by a fresh in-memory database.
// Callers must Close it.
func New() (*Harness, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	return &Harness{store: st, ids: testutil.NewSequentialIDs("scenario")}, nil
}

// Close releases the harness store.
func (h *Harness) Close() error {
	return h.store.Close()
}

// Run executes a scenario in a fresh harness and returns the result.
//
// Execution flow:
// 1. Build the batch input from records or serialized text
// 2. Aggregate it against the scenario's bounds
// 3. Record and replay a successful run through the store
// 4. Evaluate expectations
//
// A failing batch is not an error: its error code is captured in the result
// and compared with the expectations. Run returns an error only when the
// scenario cannot be executed at all.
func Run(scenario *Scenario) (*Result, error) {
	h, err := New()
	if err != nil {
		return nil, err
	}
	defer h.Close()
	return h.Run(context.Background(), scenario)
}

// Run executes one scenario using the harness store.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult(scenario.bounds())

	res, err := h.aggregate(scenario)
	if err != nil {
		var e *ir.Error
		if !errors.As(err, &e) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.ErrorCode = e.Code
		result.ErrorRecord = e.Index
		slog.Debug("scenario batch failed", "scenario", scenario.Name, "err", err)
	} else {
		result.Count = res.Count
		result.Total = res.Total
		result.Values = res.Values

		if err := h.recordAndReplay(ctx, res, result); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) aggregate(scenario *Scenario) (*batch.Result, error) {
	in, err := scenario.input()
	if err != nil {
		return nil, err
	}
	return batch.AggregateWithin(in, scenario.bounds())
}

// recordAndReplay stores the run and recomputes it from the stored records.
// A non-deterministic replay is an expectation failure, not an error.
func (h *Harness) recordAndReplay(ctx context.Context, res *batch.Result, result *Result) error {
	run, err := store.RunFromResult(h.ids.Next(), res)
	if err != nil {
		return err
	}
	if _, err := h.store.WriteRun(ctx, run); err != nil {
		return err
	}
	result.RunID = run.ID

	replay, err := h.store.Replay(ctx, run.ID)
	if err != nil {
		return err
	}
	if !replay.Deterministic {
		result.AddError("replay differs from recorded run: " + strings.Join(replay.Differences, "; "))
	}
	return nil
}
