package graph

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
)

// Render processes block in place: its content is fed to the audio input
// nodes and replaced by the sum of the audio output nodes. Blocks longer
// than the prepared block size are processed in chunks. With no published
// plan the block is silenced.
//
// Render does not allocate, lock or block. It must be called from one
// goroutine at a time.
func (g *Graph) Render(block *buffer.Block) {
	p := g.plan.Load()
	if p == nil {
		block.Zero()
		return
	}

	chunk := p.cfg.BlockSize
	for offset := 0; offset < block.Len(); offset += chunk {
		n := min(chunk, block.Len()-offset)
		block.Slice(p.view, offset, n)
		p.renderChunk(p.view)
	}

	// Channels beyond the plan's channel count carry no output.
	for i := p.cfg.NumChannels; i < block.NumChannels(); i++ {
		core.Zero(block.Channel(i))
	}

	g.ack.Store(p.epoch)
}

func (p *compiledGraph) renderChunk(ext *buffer.Block) {
	frames := ext.Len()

	for _, n := range p.inputs {
		n.scratch.SetLen(frames)
		if n.bypassed.Load() {
			n.scratch.Zero()
			continue
		}
		n.scratch.CopyFrom(ext)
	}

	for i := range p.steps {
		s := &p.steps[i]
		if s.input {
			continue
		}

		dst := s.node.scratch
		dst.SetLen(frames)

		for ch, t := range s.feed {
			if t.node == nil {
				core.Zero(dst.Channel(ch))
				continue
			}
			copy(dst.Channel(ch), t.node.scratch.Channel(t.channel))
		}

		if s.node.active() {
			s.node.unit.Process(dst)
		}
	}

	ext.Zero()
	for _, n := range p.outputs {
		for ch, out := range ext.Channels() {
			if ch >= n.scratch.NumChannels() {
				break
			}
			vecmath.AddBlockInPlace(out, n.scratch.Channel(ch))
		}
	}
}
