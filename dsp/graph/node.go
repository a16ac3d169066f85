package graph

import (
	"strconv"
	"sync/atomic"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/unit"
)

// NodeID identifies a node for the lifetime of its graph. IDs start at 1
// and are never reused; 0 means "no node".
type NodeID uint32

func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Node wraps a unit with a stable identity and a bypass flag.
type Node struct {
	id   NodeID
	unit unit.Unit
	seq  int

	bypassed atomic.Bool
	ready    atomic.Bool

	// Writer side, guarded by Graph.mu.
	preparedFor core.ProcessorConfig
	prepareErr  error
	published   bool

	// Render side. Sized by the writer before the node is published and
	// only resized while rendering is stopped.
	scratch *buffer.Block
}

// ID returns the node identifier.
func (n *Node) ID() NodeID { return n.id }

// Unit returns the wrapped unit.
func (n *Node) Unit() unit.Unit { return n.unit }

// Name returns the unit name.
func (n *Node) Name() string { return n.unit.Name() }

// Bypassed reports whether Render passes audio through this node unchanged.
func (n *Node) Bypassed() bool { return n.bypassed.Load() }

// SetBypassed sets the bypass flag. It takes effect on the next block
// without republishing. Bypassing an audio input node mutes it.
func (n *Node) SetBypassed(b bool) { n.bypassed.Store(b) }

// Prepared reports whether the unit is prepared for the current graph
// format. Unprepared nodes pass audio through like bypassed ones.
func (n *Node) Prepared() bool { return n.ready.Load() }

// active reports whether Render should call Process on the node.
func (n *Node) active() bool {
	return n.ready.Load() && !n.bypassed.Load()
}

func (n *Node) resizeScratch(cfg core.ProcessorConfig) {
	if n.scratch == nil {
		n.scratch = buffer.New(cfg.NumChannels, cfg.BlockSize)
		return
	}
	n.scratch.Resize(cfg.NumChannels, cfg.BlockSize)
}
