package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Scalar is a sealed interface representing one field value of a record.
// Only Number, Text, Bool, Null and Opaque implement this.
type Scalar interface {
	scalar() // Sealed - only these types implement it
	String() string
}

// Number is a numeric value, decoded from a JSON or YAML number or supplied natively.
type Number float64

func (Number) scalar() {}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// Text is a textual value. Whether it represents a number is decided by the
// validator, never at decode time.
type Text string

func (Text) scalar() {}

func (t Text) String() string { return string(t) }

// Bool is a boolean value.
type Bool bool

func (Bool) scalar() {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Null represents an explicit null.
type Null struct{}

func (Null) scalar() {}

func (Null) String() string { return "null" }

// Opaque holds a composite value (array or object) found in a record.
// Records may carry such fields; they are never numeric.
type Opaque struct {
	V any
}

func (Opaque) scalar() {}

func (o Opaque) String() string {
	b, err := json.Marshal(o.V)
	if err != nil {
		return fmt.Sprintf("%v", o.V)
	}
	return string(b)
}

// Kind selects which numeric coercion rule applies to a Scalar.
// The zero value is Integer.
type Kind int

const (
	Integer Kind = iota
	Float
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a kind name to a Kind. Both "int"/"integer" and "float" are accepted.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "int", "integer":
		return Integer, nil
	case "float":
		return Float, nil
	default:
		return 0, fmt.Errorf("unknown kind %q: must be one of integer, float", s)
	}
}

// ToFloat converts a Scalar to float64 using the Float coercion rule.
// Bool converts to 0 or 1. Null and Opaque are not convertible.
func ToFloat(v Scalar) (float64, error) {
	switch val := v.(type) {
	case Number:
		return float64(val), nil
	case Text:
		return strconv.ParseFloat(string(val), 64)
	case Bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case Null:
		return 0, fmt.Errorf("null is not a number")
	case Opaque:
		return 0, fmt.Errorf("composite value is not a number")
	default:
		return 0, fmt.Errorf("unknown Scalar type: %T", v)
	}
}

// ToInt converts a Scalar to int64 using the Integer coercion rule.
// Numbers are truncated toward zero; non-finite numbers are rejected.
func ToInt(v Scalar) (int64, error) {
	switch val := v.(type) {
	case Number:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%v is not a finite number", f)
		}
		return int64(f), nil
	case Text:
		return strconv.ParseInt(string(val), 10, 64)
	case Bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case Null:
		return 0, fmt.Errorf("null is not a number")
	case Opaque:
		return 0, fmt.Errorf("composite value is not a number")
	default:
		return 0, fmt.Errorf("unknown Scalar type: %T", v)
	}
}

// FromAny converts a decoded Go value to a Scalar.
// It understands the shapes produced by encoding/json (with UseNumber) and yaml.v3.
func FromAny(v any) (Scalar, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Scalar:
		return val, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", val, err)
		}
		return Number(f), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case string:
		return Text(val), nil
	case bool:
		return Bool(val), nil
	case []any, map[string]any, map[any]any:
		return Opaque{V: val}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
