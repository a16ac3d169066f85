package spectrum

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Hann returns a periodic Hann window of the given size.
func Hann(size int) []float64 {
	if size <= 0 {
		return nil
	}

	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size))
	}
	return w
}

// coherentGain returns the mean of the window coefficients.
func coherentGain(w []float64) float64 {
	if len(w) == 0 {
		return 0
	}
	return vecmath.Sum(w) / float64(len(w))
}
