package gradebook

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads a number written with either a decimal point or a
// decimal comma. Blank, non-numeric and non-finite values are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
