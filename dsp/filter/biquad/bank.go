package biquad

import "github.com/cwbudde/algo-graph/dsp/buffer"

// Bank holds one Section per channel, all sharing the same coefficients.
type Bank struct {
	sections []Section
	coeffs   Coefficients
}

// NewBank returns a Bank with numChannels sections in zero state.
func NewBank(c Coefficients, numChannels int) *Bank {
	b := &Bank{}
	b.Configure(c, numChannels)
	return b
}

// Configure sets the coefficients and the channel count. Sections that
// already exist keep their state; Configure may allocate when the channel
// count grows and must not be called from the render path.
func (b *Bank) Configure(c Coefficients, numChannels int) {
	if numChannels < 0 {
		numChannels = 0
	}
	if cap(b.sections) < numChannels {
		grown := make([]Section, numChannels)
		copy(grown, b.sections)
		b.sections = grown
	}
	b.sections = b.sections[:numChannels]
	b.coeffs = c
	for i := range b.sections {
		b.sections[i].Coefficients = c
	}
}

// Coefficients returns the coefficients shared by all sections.
func (b *Bank) Coefficients() Coefficients {
	return b.coeffs
}

// NumChannels returns the number of sections.
func (b *Bank) NumChannels() int {
	return len(b.sections)
}

// ProcessBlock filters every channel of block in place. Channels beyond the
// bank size are left untouched.
func (b *Bank) ProcessBlock(block *buffer.Block) {
	for i, ch := range block.Channels() {
		if i >= len(b.sections) {
			return
		}
		b.sections[i].ProcessBlock(ch)
	}
}

// Reset clears the state of every section.
func (b *Bank) Reset() {
	for i := range b.sections {
		b.sections[i].Reset()
	}
}
