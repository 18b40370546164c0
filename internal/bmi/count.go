package bmi

// Default band boundaries: the conventional overweight range.
const (
	DefaultLower = 25.0
	DefaultUpper = 29.9
)

// Bounds is an inclusive [Lower, Upper] band. Lower <= Upper is assumed,
// not checked; an inverted band simply contains nothing.
type Bounds struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// DefaultBounds is the overweight band [25, 29.9].
var DefaultBounds = Bounds{Lower: DefaultLower, Upper: DefaultUpper}

// Contains reports whether v lies inside the band, endpoints included.
func (b Bounds) Contains(v float64) bool {
	return b.Lower <= v && v <= b.Upper
}

// CountInRange counts the values inside b. Order is irrelevant; an empty
// slice yields 0.
func CountInRange(values []float64, b Bounds) int {
	n := 0
	for _, v := range values {
		if b.Contains(v) {
			n++
		}
	}
	return n
}
