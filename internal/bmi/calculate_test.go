package bmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bmicount/internal/ir"
)

func TestCalculate(t *testing.T) {
	got, err := Calculate(ir.Number(175), ir.Number(75))
	require.NoError(t, err)
	assert.Equal(t, 24.49, got)
}

func TestCalculateSample(t *testing.T) {
	tests := []struct {
		height, weight float64
		want           float64
	}{
		{171, 96, 32.83},
		{161, 85, 32.79},
		{180, 77, 23.77},
		{166, 62, 22.5},
		{150, 70, 31.11},
		{167, 82, 29.4},
	}

	for _, tt := range tests {
		got, err := Calculate(ir.Number(tt.height), ir.Number(tt.weight))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "height=%v weight=%v", tt.height, tt.weight)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	a, err := Calculate(ir.Number(167), ir.Number(82))
	require.NoError(t, err)
	b, err := Calculate(ir.Number(167), ir.Number(82))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMeasurementFieldOrderIrrelevant(t *testing.T) {
	m1 := Measurement{HeightCm: ir.Number(175), WeightKg: ir.Number(75)}
	m2 := Measurement{WeightKg: ir.Number(75), HeightCm: ir.Number(175)}

	a, err := m1.BMI()
	require.NoError(t, err)
	b, err := m2.BMI()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 24.49, a)
}

func TestCalculateAcceptsNumericText(t *testing.T) {
	got, err := Calculate(ir.Text("175"), ir.Text("75"))
	require.NoError(t, err)
	assert.Equal(t, 24.49, got)
}

func TestCalculateFractionalNumbersPassIntegerValidation(t *testing.T) {
	got, err := Calculate(ir.Number(175.5), ir.Number(75.2))
	require.NoError(t, err)
	assert.Equal(t, 24.42, got)
}

func TestCalculateRejectsNonNumeric(t *testing.T) {
	tests := []struct {
		name           string
		height, weight ir.Scalar
		badValue       ir.Scalar
		badField       string
	}{
		{"bad height", ir.Text("tall"), ir.Number(75), ir.Text("tall"), ir.FieldHeightCm},
		{"bad weight", ir.Number(175), ir.Text("heavy"), ir.Text("heavy"), ir.FieldWeightKg},
		{"fraction text height", ir.Text("175.5"), ir.Number(75), ir.Text("175.5"), ir.FieldHeightCm},
		{"null weight", ir.Number(175), ir.Null{}, ir.Null{}, ir.FieldWeightKg},
		{"nil height", nil, ir.Number(75), ir.Null{}, ir.FieldHeightCm},
		// Weight is validated first
		{"both bad", ir.Text("tall"), ir.Text("heavy"), ir.Text("heavy"), ir.FieldWeightKg},
		{"equal bad values", ir.Text("x"), ir.Text("x"), ir.Text("x"), ir.FieldWeightKg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLogs(t)
			_, err := Calculate(tt.height, tt.weight)
			require.Error(t, err)
			assert.True(t, ir.IsDatatypeMismatch(err))

			var e *ir.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.badValue, e.Value)
			assert.Equal(t, ir.Integer, e.Kind)
			assert.Equal(t, tt.badField, e.Field)
			assert.Equal(t, -1, e.Index)
		})
	}
}

func TestCalculateZeroHeight(t *testing.T) {
	_, err := Calculate(ir.Number(0), ir.Number(75))
	require.Error(t, err)
	assert.True(t, ir.IsZeroHeight(err))
}

func TestCalculateFloat(t *testing.T) {
	got, err := CalculateFloat(175, 75)
	require.NoError(t, err)
	assert.Equal(t, 24.49, got)

	_, err = CalculateFloat(0, 75)
	assert.True(t, ir.IsZeroHeight(err))
}

func TestRoundTo2Decimals(t *testing.T) {
	assert.Equal(t, 24.49, roundTo2Decimals(24.489795918367346))
	assert.Equal(t, 32.83, roundTo2Decimals(32.830613180123796))
	assert.Equal(t, 1.0, roundTo2Decimals(0.999))
	assert.Equal(t, -1.24, roundTo2Decimals(-1.2361))
}
