package utils

import (
	"math"
	"strconv"
)

// Round2 rounds v to two decimal places. Rounding works on the exact binary
// value with ties to even, e.g. 13.125 -> 13.12 and 2.675 -> 2.67.
// Non-finite values are returned as is.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	ret, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return ret
}
