package bmi

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bmicount/internal/ir"
)

// captureLogs routes the default slog logger into a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name  string
		value ir.Scalar
		kind  ir.Kind
	}{
		{"integer number", ir.Number(3), ir.Integer},
		{"fractional number as integer", ir.Number(1.5), ir.Integer},
		{"fractional number as float", ir.Number(1.5), ir.Float},
		{"integer text", ir.Text("42"), ir.Integer},
		{"integer text as float", ir.Text("42"), ir.Float},
		{"fraction text as float", ir.Text("1.5"), ir.Float},
		{"exponent text as float", ir.Text("2e3"), ir.Float},
		{"bool as integer", ir.Bool(true), ir.Integer},
		{"bool as float", ir.Bool(false), ir.Float},
		{"NaN as float", ir.Number(math.NaN()), ir.Float},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Validate(tt.value, tt.kind)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestValidateDefaultKindIsInteger(t *testing.T) {
	var kind ir.Kind
	ok, err := Validate(ir.Number(3), kind)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Validate(ir.Text("1.5"), kind)
	assert.True(t, ir.IsDatatypeMismatch(err))
}

func TestValidateNegative(t *testing.T) {
	tests := []struct {
		name  string
		value ir.Scalar
		kind  ir.Kind
	}{
		{"word as integer", ir.Text("foo"), ir.Integer},
		{"word as float", ir.Text("foo"), ir.Float},
		{"fraction text as integer", ir.Text("1.5"), ir.Integer},
		{"empty text", ir.Text(""), ir.Integer},
		{"null", ir.Null{}, ir.Integer},
		{"null as float", ir.Null{}, ir.Float},
		{"composite", ir.Opaque{V: []any{1}}, ir.Float},
		{"NaN as integer", ir.Number(math.NaN()), ir.Integer},
		{"infinity as integer", ir.Number(math.Inf(-1)), ir.Integer},
		{"unknown kind", ir.Number(1), ir.Kind(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLogs(t)
			ok, err := Validate(tt.value, tt.kind)
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, ir.IsDatatypeMismatch(err), "got %v", err)
		})
	}
}

func TestValidateNilIsNull(t *testing.T) {
	captureLogs(t)
	_, err := Validate(nil, ir.Integer)
	assert.True(t, ir.IsDatatypeMismatch(err))
}

func TestValidateErrorCarriesValueAndKind(t *testing.T) {
	captureLogs(t)
	_, err := Validate(ir.Text("foo"), ir.Float)

	var e *ir.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ir.Text("foo"), e.Value)
	assert.Equal(t, ir.Float, e.Kind)
}

func TestValidateLogsMismatch(t *testing.T) {
	logs := captureLogs(t)

	_, err := Validate(ir.Text("foo"), ir.Integer)
	require.Error(t, err)

	out := logs.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "value=foo")
	assert.Contains(t, out, "expected=integer")
}

func TestValidateSuccessDoesNotLog(t *testing.T) {
	logs := captureLogs(t)

	_, err := Validate(ir.Number(175), ir.Integer)
	require.NoError(t, err)
	assert.Empty(t, logs.String())
}
