package signal

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-graph/dsp/buffer"
)

// Source fills blocks with a continuous signal, one block at a time.
// Fill must not allocate.
type Source interface {
	Fill(block *buffer.Block)
}

// Silence is a Source producing zeros.
type Silence struct{}

// Fill zeroes block.
func (Silence) Fill(block *buffer.Block) {
	block.Zero()
}

// Sine is a phase-continuous sine Source. The same signal is written to
// every channel.
type Sine struct {
	freqHz     float64
	amplitude  float64
	sampleRate float64
	phase      float64
	step       float64
}

// NewSine returns a Sine at freqHz with the given peak amplitude.
func NewSine(freqHz, amplitude, sampleRate float64) *Sine {
	s := &Sine{freqHz: freqHz, amplitude: amplitude}
	s.SetSampleRate(sampleRate)
	return s
}

// SetSampleRate recomputes the phase increment, keeping the current phase.
func (s *Sine) SetSampleRate(sampleRate float64) {
	s.sampleRate = sampleRate
	if sampleRate <= 0 {
		s.step = 0
		return
	}
	s.step = 2 * math.Pi * s.freqHz / sampleRate
}

// Frequency returns the oscillator frequency in Hz.
func (s *Sine) Frequency() float64 {
	return s.freqHz
}

// Phase returns the current phase in radians, in [0, 2π).
func (s *Sine) Phase() float64 {
	return s.phase
}

// Reset sets the phase to zero.
func (s *Sine) Reset() {
	s.phase = 0
}

// Next returns the next sample and advances the phase.
func (s *Sine) Next() float64 {
	y := s.amplitude * math.Sin(s.phase)
	s.phase += s.step
	if s.phase >= 2*math.Pi {
		s.phase -= 2 * math.Pi
	}
	return y
}

// Fill writes the next Len() samples to every channel of block.
func (s *Sine) Fill(block *buffer.Block) {
	chans := block.Channels()
	if len(chans) == 0 {
		return
	}
	first := chans[0]
	for i := range first {
		first[i] = s.Next()
	}
	for _, ch := range chans[1:] {
		copy(ch, first)
	}
}

// Noise is a deterministic white-noise Source with independent channels.
type Noise struct {
	amplitude float64
	seed      int64
	rng       *rand.Rand
}

// NewNoise returns a Noise source in [-amplitude, amplitude].
func NewNoise(amplitude float64, seed int64) *Noise {
	return &Noise{
		amplitude: amplitude,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Reset restarts the noise sequence from its seed.
func (n *Noise) Reset() {
	n.rng.Seed(n.seed)
}

// Fill writes noise into every channel of block.
func (n *Noise) Fill(block *buffer.Block) {
	for _, ch := range block.Channels() {
		for i := range ch {
			ch[i] = (n.rng.Float64()*2 - 1) * n.amplitude
		}
	}
}
