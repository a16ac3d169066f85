package graph

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/unit"
)

// compiledGraph is an immutable render plan. Only view is written after
// publication, and only by the render thread.
type compiledGraph struct {
	epoch   uint64
	cfg     core.ProcessorConfig
	steps   []step
	inputs  []*Node
	outputs []*Node
	order   []NodeID
	view    *buffer.Block
}

type step struct {
	node *Node
	// feed has one entry per input channel; a nil node means silence.
	feed  []tap
	input bool
}

type tap struct {
	node    *Node
	channel int
}

// compile orders the staged nodes with Kahn's algorithm. Among nodes that
// are ready at the same time the one inserted first wins, so the order is
// deterministic. Callers hold g.mu.
func (g *Graph) compile(epoch uint64) *compiledGraph {
	channels := g.cfg.NumChannels

	indegree := make(map[NodeID]int, len(g.order))
	outgoing := make(map[NodeID][]NodeID, len(g.order))
	feeds := make(map[NodeID][]tap, len(g.order))

	for _, n := range g.order {
		feeds[n.id] = make([]tap, channels)
	}

	for _, c := range g.conns {
		if c.SourceChannel >= channels || c.DestChannel >= channels {
			g.log.WithField("connection", c.String()).Warn("connection outside channel range skipped")
			continue
		}
		feeds[c.Dest][c.DestChannel] = tap{node: g.nodes[c.Source], channel: c.SourceChannel}
		outgoing[c.Source] = append(outgoing[c.Source], c.Dest)
		indegree[c.Dest]++
	}

	ready := make([]*Node, 0, len(g.order))
	for _, n := range g.order {
		if indegree[n.id] == 0 {
			ready = append(ready, n)
		}
	}

	p := &compiledGraph{
		epoch: epoch,
		cfg:   g.cfg,
		steps: make([]step, 0, len(g.order)),
		order: make([]NodeID, 0, len(g.order)),
		view:  buffer.New(channels, 0),
	}

	for len(ready) > 0 {
		next := 0
		for i, n := range ready {
			if n.seq < ready[next].seq {
				next = i
			}
		}
		n := ready[next]
		ready = append(ready[:next], ready[next+1:]...)

		p.appendStep(n, feeds[n.id])

		for _, dest := range outgoing[n.id] {
			indegree[dest]--
			if indegree[dest] == 0 {
				ready = append(ready, g.nodes[dest])
			}
		}
	}

	// AddConnection rejects cycles, so every node is ordered. Anything left
	// over is dropped from the plan rather than rendered out of order.
	if len(p.steps) != len(g.order) {
		g.log.WithFields(logrus.Fields{
			"ordered": len(p.steps),
			"nodes":   len(g.order),
		}).Error("graph contains a cycle, unordered nodes are not rendered")
	}

	return p
}

func (p *compiledGraph) appendStep(n *Node, feed []tap) {
	s := step{node: n, feed: feed}
	n.published = true

	if kind, ok := unit.IsIO(n.unit); ok {
		switch kind {
		case unit.AudioInput:
			s.input = true
			p.inputs = append(p.inputs, n)
		case unit.AudioOutput:
			p.outputs = append(p.outputs, n)
		}
	}

	p.steps = append(p.steps, s)
	p.order = append(p.order, n.id)
}
