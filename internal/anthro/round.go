package anthro

import (
	"math"
	"strconv"
)

// roundTo rounds x to the given number of decimal places, resolving exact
// ties to the even digit. strconv rounds the exact binary value, so 2.675
// (stored as 2.67499...) becomes 2.67.
func roundTo(x float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// roundInt rounds to the nearest integer, ties to even.
func roundInt(x float64) int {
	return int(math.RoundToEven(x))
}

// maxExact is the largest magnitude a float64 holds as an exact integer.
const maxExact = 1 << 53

// representable reports whether x is finite and small enough to round to
// an int without loss.
func representable(x float64) bool {
	return !math.IsNaN(x) && math.Abs(x) < maxExact
}
