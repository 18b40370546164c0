package bmi

import (
	"errors"
	"math"

	"github.com/roach88/bmicount/internal/ir"
)

// Calculate returns the BMI for a height in centimeters and a weight in
// kilograms, rounded to two decimals.
//
// Weight and height are both validated with the Integer kind, regardless of
// whether they carry a fraction. A validation failure keeps its code and
// names the failing field.
func Calculate(height, weight ir.Scalar) (float64, error) {
	if _, err := Validate(weight, ir.Integer); err != nil {
		return 0, inField(err, ir.FieldWeightKg)
	}
	if _, err := Validate(height, ir.Integer); err != nil {
		return 0, inField(err, ir.FieldHeightCm)
	}

	h, err := ir.ToFloat(height)
	if err != nil {
		return 0, ir.NewDatatypeMismatch(height, ir.Float, err).AtRecord(-1, ir.FieldHeightCm)
	}
	w, err := ir.ToFloat(weight)
	if err != nil {
		return 0, ir.NewDatatypeMismatch(weight, ir.Float, err).AtRecord(-1, ir.FieldWeightKg)
	}

	return CalculateFloat(h, w)
}

// CalculateFloat is Calculate for native numeric callers.
func CalculateFloat(heightCm, weightKg float64) (float64, error) {
	if heightCm == 0 {
		return 0, ir.NewZeroHeight(ir.Number(heightCm))
	}
	meters := heightCm / 100
	return roundTo2Decimals(weightKg / (meters * meters)), nil
}

func inField(err error, field string) error {
	var e *ir.Error
	if errors.As(err, &e) {
		return e.AtRecord(-1, field)
	}
	return err
}

// roundTo2Decimals rounds half away from zero to two decimal places.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// Measurement names the two inputs of Calculate so call sites cannot swap them.
type Measurement struct {
	HeightCm ir.Scalar
	WeightKg ir.Scalar
}

// BMI is Calculate(m.HeightCm, m.WeightKg).
func (m Measurement) BMI() (float64, error) {
	return Calculate(m.HeightCm, m.WeightKg)
}
