package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-graph/dsp/buffer"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// noise generates white noise with a fixed seed.
func noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// NoiseBlock returns a block of independent deterministic noise channels.
func NoiseBlock(seed int64, numChannels, frames int) *buffer.Block {
	chans := make([][]float64, numChannels)
	for i := range chans {
		chans[i] = noise(seed+int64(i), 0.5, frames)
	}
	return buffer.FromChannels(chans)
}

// StereoBlock returns a two-channel block holding copies of left and right.
func StereoBlock(left, right []float64) *buffer.Block {
	return buffer.FromChannels([][]float64{
		append([]float64(nil), left...),
		append([]float64(nil), right...),
	})
}
