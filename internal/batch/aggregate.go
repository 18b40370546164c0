package batch

import (
	"errors"
	"log/slog"

	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
)

// Result is the outcome of a successful aggregation.
type Result struct {
	// Values holds one BMI per record, in input order.
	Values []float64 `json:"values"`

	// Count is the number of values inside Bounds.
	Count int `json:"count"`

	// Total is the number of records processed.
	Total int `json:"total"`

	// Bounds is the band used for counting.
	Bounds bmi.Bounds `json:"bounds"`

	// Records are the decoded records, kept for digests and persistence.
	Records []ir.Record `json:"-"`
}

// Aggregate counts the records whose BMI lies in the default overweight band.
func Aggregate(in Input) (int, error) {
	res, err := AggregateWithin(in, bmi.DefaultBounds)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// AggregateWithin decodes in, computes a BMI per record and counts the values
// inside b.
//
// Records are processed in order. A missing HeightCm or WeightKg field, or a
// calculation failure, aborts the batch and the error is returned with the
// record index attached; no partial Result is ever returned.
func AggregateWithin(in Input, b bmi.Bounds) (*Result, error) {
	records, err := Decode(in)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(records))
	for i, rec := range records {
		m, err := measurementOf(i, rec)
		if err != nil {
			return nil, err
		}

		v, err := m.BMI()
		if err != nil {
			return nil, atRecord(err, i)
		}
		values = append(values, v)
	}

	res := &Result{
		Values:  values,
		Count:   bmi.CountInRange(values, b),
		Total:   len(records),
		Bounds:  b,
		Records: records,
	}
	slog.Debug("batch aggregated", "records", res.Total, "in_range", res.Count,
		"lower", b.Lower, "upper", b.Upper)
	return res, nil
}

// measurementOf extracts the height and weight fields of record i.
func measurementOf(i int, rec ir.Record) (bmi.Measurement, error) {
	h, ok := rec.Height()
	if !ok {
		return bmi.Measurement{}, ir.NewMissingField(i, ir.FieldHeightCm)
	}
	w, ok := rec.Weight()
	if !ok {
		return bmi.Measurement{}, ir.NewMissingField(i, ir.FieldWeightKg)
	}
	return bmi.Measurement{HeightCm: h, WeightKg: w}, nil
}

// atRecord attaches the record index to an ir.Error, keeping its code and field.
func atRecord(err error, i int) error {
	var e *ir.Error
	if !errors.As(err, &e) {
		return err
	}
	return e.AtRecord(i, "")
}
