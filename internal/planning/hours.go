package planning

import (
	"math"
	"strconv"
	"strings"

	"production-planner/internal/domain"
)

// ParsePlannedTime converts an "HH:MM" string into decimal hours. Anything
// else, including minutes past 59, yields 0.
func ParsePlannedTime(s string) float64 {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0
	}
	h, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || h < 0 {
		return 0
	}
	m, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || m < 0 || m >= 60 {
		return 0
	}
	return float64(h) + float64(m)/60
}

// OrderHours is the planned production time of o: the HH:MM field first,
// the decimal field when that is empty or zero.
func OrderHours(o domain.Order) float64 {
	if h := ParsePlannedTime(o.PlannedTime); h > 0 {
		return h
	}
	if o.DecimalHours != nil && !math.IsNaN(*o.DecimalHours) && !math.IsInf(*o.DecimalHours, 0) {
		return *o.DecimalHours
	}
	return 0
}
