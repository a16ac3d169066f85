//go:build !fastmath

package level

import "math"

func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}

func mathLog10(x float64) float64 {
	return math.Log10(x)
}
