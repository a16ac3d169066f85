package graph

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/unit"
)

var errTooManyChannels = errors.New("too many channels")

// offsetUnit adds a constant to every sample and records its lifecycle.
type offsetUnit struct {
	offset      float64
	maxChannels int
	prepares    int
	resets      int
	released    atomic.Bool
}

func (u *offsetUnit) Prepare(cfg core.ProcessorConfig) error {
	if u.maxChannels > 0 && cfg.NumChannels > u.maxChannels {
		return errTooManyChannels
	}
	u.prepares++
	return nil
}

func (u *offsetUnit) Process(block *buffer.Block) {
	for _, ch := range block.Channels() {
		for i := range ch {
			ch[i] += u.offset
		}
	}
}

func (u *offsetUnit) Reset()       { u.resets++ }
func (u *offsetUnit) Name() string { return "Offset" }
func (u *offsetUnit) Release()     { u.released.Store(true) }

func testConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(16),
		core.WithNumChannels(2),
	)
}

// stereo connects src to dst on channels 0 and 1.
func stereo(t *testing.T, g *Graph, src, dst NodeID) {
	t.Helper()
	for ch := range 2 {
		require.NoError(t, g.AddConnection(Connection{Source: src, SourceChannel: ch, Dest: dst, DestChannel: ch}))
	}
}

// ioGraph returns a prepared graph with an audio input and output node.
func ioGraph(t *testing.T) (g *Graph, in, out NodeID) {
	t.Helper()
	g = New(testConfig())
	in = g.AddNode(unit.NewIO(unit.AudioInput))
	out = g.AddNode(unit.NewIO(unit.AudioOutput))
	require.NoError(t, g.PrepareNode(in))
	require.NoError(t, g.PrepareNode(out))
	return g, in, out
}

// chain wires in -> ids... -> out and publishes.
func chain(t *testing.T, g *Graph, in, out NodeID, ids ...NodeID) {
	t.Helper()
	prev := in
	for _, id := range ids {
		stereo(t, g, prev, id)
		prev = id
	}
	stereo(t, g, prev, out)
	g.Publish()
}

// acyclic runs Kahn's algorithm over conns.
func acyclic(nodes []*Node, conns []Connection) bool {
	indegree := make(map[NodeID]int, len(nodes))
	for _, c := range conns {
		indegree[c.Dest]++
	}
	queue := make([]NodeID, 0, len(nodes))
	for _, n := range nodes {
		if indegree[n.ID()] == 0 {
			queue = append(queue, n.ID())
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, c := range conns {
			if c.Source == id {
				indegree[c.Dest]--
				if indegree[c.Dest] == 0 {
					queue = append(queue, c.Dest)
				}
			}
		}
	}
	return visited == len(nodes)
}
