package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
)

func TestReport_Success(t *testing.T) {
	result := NewResult(bmi.DefaultBounds)
	result.Count = 1
	result.Total = 2
	result.Values = []float64{29.4, 22.5}
	result.RunID = "scenario-0001"

	data, err := (&Report{Scenario: "pair", Result: result}).MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"bounds":{"lower":25,"upper":29.9},"count":1,"scenario":"pair","total":2,"values":[29.4,22.5]}`,
		string(data))
}

func TestReport_FailureOmitsValues(t *testing.T) {
	result := NewResult(bmi.Bounds{Lower: 18.5, Upper: 24.9})
	result.ErrorCode = ir.ErrCodeDecode

	data, err := (&Report{Scenario: "bad", Result: result}).MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"bounds":{"lower":18.5,"upper":24.9},"error":{"code":"DECODE_ERROR"},"scenario":"bad"}`,
		string(data))
}

func TestReport_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/custom_bounds.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := (&Report{Scenario: s.Name, Result: first}).MarshalCanonical()
	require.NoError(t, err)
	b, err := (&Report{Scenario: s.Name, Result: second}).MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAssertGolden_ExistingResult(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/sample_structured.yaml")
	require.NoError(t, err)
	result, err := Run(s)
	require.NoError(t, err)

	require.NoError(t, AssertGolden(t, s.Name, result))
}
