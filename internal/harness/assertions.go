package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an expectation fails.
// It includes the run's values to help debug the failure.
type AssertionError struct {
	Type     string    // Expectation name: count, total, values or error
	Expected string    // Human-readable expected outcome
	Actual   string    // Human-readable actual outcome
	Values   []float64 // Computed values, if the batch succeeded
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Values) > 0 {
		fmt.Fprintf(&buf, "\nComputed values:\n")
		for i, v := range e.Values {
			fmt.Fprintf(&buf, "  [%d] %v\n", i, v)
		}
	}

	return buf.String()
}

// EvaluateExpect checks a result against a scenario's expectations and
// returns one message per failed expectation.
func EvaluateExpect(result *Result, expect Expect) []string {
	var errs []string
	for _, check := range []func(*Result, Expect) error{
		assertError,
		assertCount,
		assertTotal,
		assertValues,
	} {
		if err := check(result, expect); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertError checks the failure mode. A batch that failed when no error was
// expected, or succeeded when one was, fails here and nowhere else.
func assertError(result *Result, expect Expect) error {
	switch {
	case expect.Error == "" && result.Failed():
		return &AssertionError{
			Type:     "error",
			Expected: "success",
			Actual:   describeFailure(result),
		}
	case expect.Error == "":
		return nil
	case !result.Failed():
		return &AssertionError{
			Type:     "error",
			Expected: expect.Error,
			Actual:   fmt.Sprintf("success (count=%d)", result.Count),
			Values:   result.Values,
		}
	case string(result.ErrorCode) != expect.Error:
		return &AssertionError{
			Type:     "error",
			Expected: expect.Error,
			Actual:   describeFailure(result),
		}
	case expect.Record != nil && *expect.Record != result.ErrorRecord:
		return &AssertionError{
			Type:     "error",
			Expected: fmt.Sprintf("%s at record %d", expect.Error, *expect.Record),
			Actual:   describeFailure(result),
		}
	}
	return nil
}

func assertCount(result *Result, expect Expect) error {
	if expect.Count == nil || result.Failed() {
		return nil
	}
	if *expect.Count != result.Count {
		return &AssertionError{
			Type:     "count",
			Expected: fmt.Sprintf("%d in [%v, %v]", *expect.Count, result.Bounds.Lower, result.Bounds.Upper),
			Actual:   fmt.Sprintf("%d", result.Count),
			Values:   result.Values,
		}
	}
	return nil
}

func assertTotal(result *Result, expect Expect) error {
	if expect.Total == nil || result.Failed() {
		return nil
	}
	if *expect.Total != result.Total {
		return &AssertionError{
			Type:     "total",
			Expected: fmt.Sprintf("%d records", *expect.Total),
			Actual:   fmt.Sprintf("%d records", result.Total),
		}
	}
	return nil
}

// assertValues requires the exact sequence of rounded values. Values are
// already rounded to two decimals, so exact comparison is safe.
func assertValues(result *Result, expect Expect) error {
	if expect.Values == nil || result.Failed() {
		return nil
	}
	if !slices.Equal(expect.Values, result.Values) {
		return &AssertionError{
			Type:     "values",
			Expected: fmt.Sprintf("%v", expect.Values),
			Actual:   fmt.Sprintf("%v", result.Values),
		}
	}
	return nil
}

func describeFailure(result *Result) string {
	if result.ErrorRecord >= 0 {
		return fmt.Sprintf("%s at record %d", result.ErrorCode, result.ErrorRecord)
	}
	return string(result.ErrorCode)
}
