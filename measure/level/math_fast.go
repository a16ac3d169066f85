//go:build fastmath

package level

import "github.com/meko-christian/algo-approx"

const ln10 = 2.302585092994045684017991454684

func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}

func mathLog10(x float64) float64 {
	return approx.FastLog(x) / ln10
}
