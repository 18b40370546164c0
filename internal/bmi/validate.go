package bmi

import (
	"log/slog"

	"github.com/roach88/bmicount/internal/ir"
)

// coercers maps each Kind to its coercion rule. The set of kinds is closed.
var coercers = map[ir.Kind]func(ir.Scalar) error{
	ir.Integer: func(v ir.Scalar) error {
		_, err := ir.ToInt(v)
		return err
	},
	ir.Float: func(v ir.Scalar) error {
		_, err := ir.ToFloat(v)
		return err
	},
}

// Validate reports whether value coerces to kind.
//
// On success it returns true. On failure it logs the value and the expected
// kind, then returns false with a DATATYPE_MISMATCH error. A kind outside the
// closed set is treated as a mismatch.
func Validate(value ir.Scalar, kind ir.Kind) (bool, error) {
	if value == nil {
		value = ir.Null{}
	}

	coerce, ok := coercers[kind]
	if !ok {
		slog.Error("datatype mismatch", "value", value.String(), "expected", kind.String())
		return false, ir.NewDatatypeMismatch(value, kind, nil)
	}

	if err := coerce(value); err != nil {
		slog.Error("datatype mismatch", "value", value.String(), "expected", kind.String())
		return false, ir.NewDatatypeMismatch(value, kind, err)
	}
	return true, nil
}
