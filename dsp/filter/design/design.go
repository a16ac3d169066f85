package design

import (
	"math"

	"github.com/cwbudde/algo-graph/dsp/filter/biquad"
)

// HighpassFirstOrder designs a first-order Butterworth highpass at freq (Hz)
// via the bilinear transform. The result is a section with B2 = A2 = 0.
func HighpassFirstOrder(freq, sampleRate float64) biquad.Coefficients {
	k, ok := prewarp(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}

// prewarp returns tan(π·freq/sampleRate), or false when freq is not
// inside (0, Nyquist) or either value is not finite.
func prewarp(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}
	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}
