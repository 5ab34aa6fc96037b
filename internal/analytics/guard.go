package analytics

import "math"

// SafeDiv returns num/den, or 0 when the denominator is zero.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// CoalesceZero dereferences a nullable statistic, treating nil as 0.
func CoalesceZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return SafeDiv(sum, float64(len(values)))
}
