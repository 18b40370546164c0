package bmi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountInRange(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		bounds Bounds
		want   int
	}{
		{"sample with defaults", []float64{32.83, 32.79, 23.77, 22.5, 31.11, 29.4}, DefaultBounds, 1},
		{"empty", []float64{}, DefaultBounds, 0},
		{"nil", nil, DefaultBounds, 0},
		{"both endpoints inclusive", []float64{25, 29.9}, Bounds{Lower: 25, Upper: 29.9}, 2},
		{"just outside both endpoints", []float64{24.99, 29.91}, DefaultBounds, 0},
		{"custom band", []float64{18.5, 20, 24.9, 25}, Bounds{Lower: 18.5, Upper: 24.9}, 3},
		{"degenerate band", []float64{25, 25, 26}, Bounds{Lower: 25, Upper: 25}, 2},
		{"inverted band contains nothing", []float64{27}, Bounds{Lower: 29.9, Upper: 25}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountInRange(tt.values, tt.bounds))
		})
	}
}

func TestCountInRangeOrderIrrelevant(t *testing.T) {
	a := []float64{29.4, 22.5, 27, 31.11}
	b := []float64{31.11, 27, 22.5, 29.4}
	assert.Equal(t, CountInRange(a, DefaultBounds), CountInRange(b, DefaultBounds))
}

func TestDefaultBounds(t *testing.T) {
	assert.Equal(t, 25.0, DefaultBounds.Lower)
	assert.Equal(t, 29.9, DefaultBounds.Upper)
	assert.True(t, DefaultBounds.Contains(25))
	assert.True(t, DefaultBounds.Contains(29.9))
	assert.False(t, DefaultBounds.Contains(30))
}
