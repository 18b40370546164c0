package harness

import (
	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Bounds are the bounds the batch was counted against.
	Bounds bmi.Bounds `json:"bounds"`

	// Count, Total and Values describe a successful aggregation.
	Count  int       `json:"count"`
	Total  int       `json:"total"`
	Values []float64 `json:"values,omitempty"`

	// ErrorCode is set when the batch failed. ErrorRecord is the index of the
	// offending record, or -1 when the failure is not tied to one record.
	ErrorCode   ir.ErrorCode `json:"error_code,omitempty"`
	ErrorRecord int          `json:"error_record,omitempty"`

	// RunID identifies the run in the scenario's in-memory store.
	RunID string `json:"run_id,omitempty"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(bounds bmi.Bounds) *Result {
	return &Result{
		Pass:        true,
		Bounds:      bounds,
		ErrorRecord: -1,
		Errors:      []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Failed reports whether the batch itself failed to aggregate.
func (r *Result) Failed() bool {
	return r.ErrorCode != ""
}
