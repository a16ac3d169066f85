package unit

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
)

// GainDB is the fixed gain of the Gain unit in decibels.
const GainDB = -6.0

// Gain scales every sample by GainDB.
type Gain struct {
	factor float64
}

// NewGain returns a Gain unit.
func NewGain() *Gain {
	return &Gain{factor: core.DBToLinear(GainDB)}
}

// Prepare only validates cfg; Gain is stateless.
func (g *Gain) Prepare(cfg core.ProcessorConfig) error {
	return cfg.Validate()
}

func (g *Gain) Process(block *buffer.Block) {
	for _, ch := range block.Channels() {
		vecmath.ScaleBlockInPlace(ch, g.factor)
	}
}

func (g *Gain) Reset() {}

// Factor returns the linear gain.
func (g *Gain) Factor() float64 { return g.factor }

func (g *Gain) Name() string { return KindGain.String() }
