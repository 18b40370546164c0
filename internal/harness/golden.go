package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/bmicount/internal/ir"
)

// Report is the golden snapshot of a scenario execution.
// It excludes the run ID and pass/fail state so that the same batch produces
// byte-identical reports across runs.
type Report struct {
	Scenario string
	Result   *Result
}

// toCanonicalMap converts a Report to a map for canonical JSON serialization.
func (r *Report) toCanonicalMap() map[string]any {
	out := map[string]any{
		"scenario": r.Scenario,
		"bounds": map[string]any{
			"lower": r.Result.Bounds.Lower,
			"upper": r.Result.Bounds.Upper,
		},
	}

	if r.Result.Failed() {
		failure := map[string]any{"code": string(r.Result.ErrorCode)}
		if r.Result.ErrorRecord >= 0 {
			failure["record"] = r.Result.ErrorRecord
		}
		out["error"] = failure
		return out
	}

	values := make([]any, len(r.Result.Values))
	for i, v := range r.Result.Values {
		values[i] = v
	}
	out["count"] = r.Result.Count
	out["total"] = r.Result.Total
	out["values"] = values
	return out
}

// MarshalCanonical renders the report as canonical JSON.
func (r *Report) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonicalValue(r.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its report against a golden
// file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass.
// Test failure (via goldie) occurs if the report doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's report against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	report := Report{Scenario: scenarioName, Result: result}
	data, err := report.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
