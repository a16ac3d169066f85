package unit

import (
	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/signal"
)

// OscillatorFrequency is the fixed frequency of the Oscillator in Hz.
const OscillatorFrequency = 440.0

// Oscillator is a sine source. Process discards the incoming audio and
// writes the same sine to every channel, so an Oscillator placed after
// other units replaces their output.
type Oscillator struct {
	cfg  core.ProcessorConfig
	sine *signal.Sine
}

// NewOscillator returns an unprepared Oscillator.
func NewOscillator() *Oscillator {
	return &Oscillator{sine: signal.NewSine(OscillatorFrequency, 1, 0)}
}

// Prepare updates the phase increment for cfg.SampleRate. The phase is kept.
func (o *Oscillator) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg == o.cfg {
		return nil
	}
	o.sine.SetSampleRate(cfg.SampleRate)
	o.cfg = cfg
	return nil
}

func (o *Oscillator) Process(block *buffer.Block) {
	o.sine.Fill(block)
}

// Reset restarts the sine at phase zero.
func (o *Oscillator) Reset() {
	o.sine.Reset()
}

func (o *Oscillator) Name() string { return KindOscillator.String() }
