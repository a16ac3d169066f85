package graph

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-graph/dsp/unit"
)

type retiredNode struct {
	node *Node
	// epoch is the first plan epoch that no longer references node.
	epoch uint64
}

// retire queues n for release. A node that never reached a published plan
// is releasable at once. Callers hold g.mu.
func (g *Graph) retire(n *Node) {
	var epoch uint64
	if n.published {
		epoch = g.epoch + 1
	}
	g.retired = append(g.retired, retiredNode{node: n, epoch: epoch})
}

// Reclaim releases retired nodes that the render thread has moved past and
// returns how many were released.
func (g *Graph) Reclaim() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	ack := g.ack.Load()
	kept := g.retired[:0]
	released := 0

	for _, r := range g.retired {
		if r.epoch > ack {
			kept = append(kept, r)
			continue
		}
		release(r.node)
		released++
	}

	clear(g.retired[len(kept):])
	g.retired = kept

	if released > 0 {
		g.log.WithFields(logrus.Fields{"released": released, "pending": len(kept), "ack": ack}).Debug("nodes reclaimed")
	}

	return released
}

// Pending returns the number of retired nodes awaiting release.
func (g *Graph) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.retired)
}

// Close withdraws the published plan and releases every node, live or
// retired. Render must not be running; afterwards it outputs silence.
func (g *Graph) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.plan.Store(nil)

	for _, r := range g.retired {
		release(r.node)
	}
	for _, n := range g.order {
		release(n)
	}

	g.retired = nil
	g.order = nil
	g.conns = nil
	clear(g.nodes)
	g.dirty = false
}

func release(n *Node) {
	if r, ok := n.unit.(unit.Releaser); ok {
		r.Release()
	}
	n.scratch = nil
}
