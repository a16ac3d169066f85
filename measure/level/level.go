package level

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-graph/dsp/buffer"
)

// Reading is a linear peak and RMS level.
type Reading struct {
	Peak float64
	RMS  float64
}

// PeakDB returns the peak level in dBFS.
func (r Reading) PeakDB() float64 { return toDB(r.Peak) }

// RMSDB returns the RMS level in dBFS.
func (r Reading) RMSDB() float64 { return toDB(r.RMS) }

// Measure returns the level of one channel.
func Measure(x []float64) Reading {
	if len(x) == 0 {
		return Reading{}
	}
	return Reading{
		Peak: vecmath.MaxAbs(x),
		RMS:  mathSqrt(vecmath.DotProduct(x, x) / float64(len(x))),
	}
}

// Meter accumulates per-channel levels over many blocks.
type Meter struct {
	peak   []float64
	energy []float64
	frames int
}

// NewMeter returns a meter for numChannels channels.
func NewMeter(numChannels int) *Meter {
	return &Meter{
		peak:   make([]float64, numChannels),
		energy: make([]float64, numChannels),
	}
}

// Add accumulates block. Channels beyond the meter's count are ignored.
func (m *Meter) Add(block *buffer.Block) {
	for i, ch := range block.Channels() {
		if i >= len(m.peak) {
			break
		}
		if len(ch) == 0 {
			continue
		}
		m.peak[i] = math.Max(m.peak[i], vecmath.MaxAbs(ch))
		m.energy[i] += vecmath.DotProduct(ch, ch)
	}
	m.frames += block.Len()
}

// Frames returns the number of frames accumulated.
func (m *Meter) Frames() int { return m.frames }

// Readings returns the level of every channel since the last Reset.
func (m *Meter) Readings() []Reading {
	out := make([]Reading, len(m.peak))
	if m.frames == 0 {
		return out
	}
	for i := range out {
		out[i] = Reading{
			Peak: m.peak[i],
			RMS:  mathSqrt(m.energy[i] / float64(m.frames)),
		}
	}
	return out
}

// Reset clears the accumulated levels.
func (m *Meter) Reset() {
	clear(m.peak)
	clear(m.energy)
	m.frames = 0
}

func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * mathLog10(v)
}
