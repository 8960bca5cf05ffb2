package planning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"production-planner/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func TestParsePlannedTime(t *testing.T) {
	tests := map[string]float64{
		"08:00":  8,
		"04:30":  4.5,
		"1:15":   1.25,
		"120:45": 120.75,
		"00:00":  0,
		"":       0,
		"8":      0,
		"ab:cd":  0,
		"-1:00":  0,
		"1:59":   1 + 59.0/60,
		"1:60":   0,
		"1:75":   0,
	}
	for in, want := range tests {
		assert.InDelta(t, want, ParsePlannedTime(in), 1e-9, in)
	}
}

func TestOrderHours(t *testing.T) {
	t.Run("string field wins", func(t *testing.T) {
		assert.InDelta(t, 2.5, OrderHours(domain.Order{PlannedTime: "02:30", DecimalHours: fptr(9)}), 1e-9)
	})
	t.Run("zero string falls back to decimal", func(t *testing.T) {
		assert.InDelta(t, 3.2, OrderHours(domain.Order{PlannedTime: "00:00", DecimalHours: fptr(3.2)}), 1e-9)
	})
	t.Run("missing string falls back to decimal", func(t *testing.T) {
		assert.InDelta(t, 1.75, OrderHours(domain.Order{DecimalHours: fptr(1.75)}), 1e-9)
	})
	t.Run("out of range minutes fall back to decimal", func(t *testing.T) {
		assert.InDelta(t, 2, OrderHours(domain.Order{PlannedTime: "1:75", DecimalHours: fptr(2)}), 1e-9)
	})
	t.Run("nothing is zero", func(t *testing.T) {
		assert.Zero(t, OrderHours(domain.Order{}))
	})
	t.Run("NaN decimal is zero", func(t *testing.T) {
		assert.Zero(t, OrderHours(domain.Order{DecimalHours: fptr(math.NaN())}))
	})
}
