package analytics

import "math"

// round2 rounds to 2 decimal places. Used for every reported float except
// consistency scores.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal place. Used for consistency scores.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
