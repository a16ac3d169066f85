package buffer

import "github.com/cwbudde/algo-graph/dsp/core"

// Block is a non-interleaved multichannel block of float64 samples.
// Every channel has the same length.
type Block struct {
	chans  [][]float64
	frames int
}

// New returns a zero-filled Block with numChannels channels of frames samples.
func New(numChannels, frames int) *Block {
	b := &Block{}
	b.Resize(numChannels, frames)
	return b
}

// FromChannels wraps existing channel slices without copying. The block
// length is the length of the shortest channel.
func FromChannels(chans [][]float64) *Block {
	frames := 0
	for i, ch := range chans {
		if i == 0 || len(ch) < frames {
			frames = len(ch)
		}
	}
	b := &Block{chans: chans, frames: frames}
	for i := range b.chans {
		b.chans[i] = b.chans[i][:frames]
	}
	return b
}

// NumChannels returns the number of channels.
func (b *Block) NumChannels() int {
	return len(b.chans)
}

// Len returns the number of frames per channel.
func (b *Block) Len() int {
	return b.frames
}

// Cap returns the number of frames the block can hold without reallocating.
func (b *Block) Cap() int {
	if len(b.chans) == 0 {
		return 0
	}
	return cap(b.chans[0])
}

// Channel returns the samples of channel i.
func (b *Block) Channel(i int) []float64 {
	return b.chans[i]
}

// Channels returns all channel slices. Callers may modify samples but not
// the returned slice header.
func (b *Block) Channels() [][]float64 {
	return b.chans
}

// Resize sets the channel count and length, reusing capacity when possible.
// Newly exposed samples are zeroed. Resize may allocate and must not be
// called from the render path.
func (b *Block) Resize(numChannels, frames int) {
	if numChannels < 0 {
		numChannels = 0
	}
	if frames < 0 {
		frames = 0
	}

	if cap(b.chans) < numChannels {
		grown := make([][]float64, numChannels)
		copy(grown, b.chans)
		b.chans = grown
	}
	b.chans = b.chans[:numChannels]

	for i, ch := range b.chans {
		if cap(ch) < frames {
			grown := make([]float64, frames)
			copy(grown, ch)
			b.chans[i] = grown
			continue
		}
		old := len(ch)
		b.chans[i] = core.EnsureLen(ch, frames)
		if frames > old {
			core.Zero(b.chans[i][old:])
		}
	}
	b.frames = frames
}

// SetLen changes the number of frames within the existing capacity.
// n is clamped to [0, Cap()]. It never allocates.
func (b *Block) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	if c := b.Cap(); n > c {
		n = c
	}
	for i := range b.chans {
		b.chans[i] = b.chans[i][:n]
	}
	b.frames = n
}

// Slice points dst at frames [offset, offset+n) of b. dst keeps at most as
// many channels as its channel capacity allows, so a dst created with New
// and reused never allocates.
func (b *Block) Slice(dst *Block, offset, n int) {
	if offset < 0 {
		offset = 0
	}
	if offset > b.frames {
		offset = b.frames
	}
	if offset+n > b.frames {
		n = b.frames - offset
	}

	channels := len(b.chans)
	if c := cap(dst.chans); channels > c {
		channels = c
	}
	dst.chans = dst.chans[:channels]
	for i := range dst.chans {
		dst.chans[i] = b.chans[i][offset : offset+n]
	}
	dst.frames = n
}

// Zero sets every sample to 0.
func (b *Block) Zero() {
	core.ZeroAll(b.chans)
}

// CopyFrom copies src into b. Only the overlapping frames are copied;
// channels of b missing in src are zeroed.
func (b *Block) CopyFrom(src *Block) {
	for i := range b.chans {
		if i < len(src.chans) {
			n := core.CopyInto(b.chans[i], src.chans[i])
			core.Zero(b.chans[i][n:])
			continue
		}
		core.Zero(b.chans[i])
	}
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	c := New(len(b.chans), b.frames)
	c.CopyFrom(b)
	return c
}

// InterleaveFloat32 writes frames as interleaved float32 samples into dst,
// the layout audio devices expect, and returns the number of samples
// written. dst must hold Len()*NumChannels() values to receive the whole
// block.
func (b *Block) InterleaveFloat32(dst []float32) int {
	channels := len(b.chans)
	if channels == 0 {
		return 0
	}

	frames := min(b.frames, len(dst)/channels)
	for i, ch := range b.chans {
		for j := range frames {
			dst[j*channels+i] = float32(ch[j])
		}
	}
	return frames * channels
}
