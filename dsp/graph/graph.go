package graph

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/unit"
)

// Graph owns nodes and connections and renders the published plan.
//
// All methods except Render are writer-side: they may allocate and they
// serialize on an internal mutex that Render never takes.
type Graph struct {
	mu     sync.Mutex
	log    logrus.FieldLogger
	cfg    core.ProcessorConfig
	nextID NodeID
	seq    int

	nodes   map[NodeID]*Node
	order   []*Node
	conns   []Connection
	dirty   bool
	retired []retiredNode

	plan  atomic.Pointer[compiledGraph]
	epoch uint64        // epoch of the last published plan, writer side
	ack   atomic.Uint64 // epoch of the last plan Render finished
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for writer-side diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Graph) {
		if l != nil {
			g.log = l
		}
	}
}

// New returns an empty graph for cfg. Invalid config fields fall back to
// core defaults.
func New(cfg core.ProcessorConfig, opts ...Option) *Graph {
	if cfg.Validate() != nil {
		cfg = core.ApplyProcessorOptions(
			core.WithSampleRate(cfg.SampleRate),
			core.WithBlockSize(cfg.BlockSize),
			core.WithNumChannels(cfg.NumChannels),
		)
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	g := &Graph{
		log:    discard,
		cfg:    cfg,
		nextID: 1,
		nodes:  make(map[NodeID]*Node),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the current processing format.
func (g *Graph) Config() core.ProcessorConfig {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg
}

// AddNode inserts a node wrapping u and returns its id. The node is
// unprepared until PrepareNode or Prepare succeeds for it.
func (g *Graph) AddNode(u unit.Unit) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := &Node{id: g.nextID, unit: u, seq: g.seq}
	n.resizeScratch(g.cfg)
	g.nextID++
	g.seq++

	g.nodes[n.id] = n
	g.order = append(g.order, n)
	g.dirty = true

	g.log.WithFields(logrus.Fields{"node": n.id, "unit": u.Name()}).Debug("node added")

	return n.id
}

// RemoveNode detaches id and every connection touching it. The node is
// released by Reclaim once Render can no longer reach it. Unknown ids are
// ignored and reported as false.
func (g *Graph) RemoveNode(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return false
	}

	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(x *Node) bool { return x == n })
	g.conns = slices.DeleteFunc(g.conns, func(c Connection) bool { return c.touches(id) })
	g.dirty = true
	g.retire(n)

	g.log.WithFields(logrus.Fields{"node": id, "unit": n.Name()}).Debug("node removed")

	return true
}

// AddConnection inserts c. It fails, leaving the graph unchanged, when an
// endpoint is missing, a channel is out of range, c already exists, the
// destination input already has a source, or c would close a cycle.
func (g *Graph) AddConnection(c Connection) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.validateConnection(c); err != nil {
		return err
	}

	g.conns = append(g.conns, c)
	g.dirty = true

	return nil
}

// RemoveConnection deletes c and reports whether it existed.
func (g *Graph) RemoveConnection(c Connection) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := slices.Index(g.conns, c)
	if i < 0 {
		return false
	}

	g.conns = slices.Delete(g.conns, i, i+1)
	g.dirty = true

	return true
}

// ClearConnections deletes every connection and returns how many existed.
func (g *Graph) ClearConnections() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(g.conns)
	if n > 0 {
		g.conns = g.conns[:0]
		g.dirty = true
	}
	return n
}

// Connections returns the staged connections in insertion order.
func (g *Graph) Connections() []Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.conns)
}

// Nodes returns the staged nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.order)
}

// Node returns the staged node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

// PrepareNode prepares the unit of id for the current format. Nodes already
// prepared for it are left alone. On failure the node stays unprepared and
// passes audio through.
func (g *Graph) PrepareNode(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("graph: prepare node %d: %w", id, ErrUnknownNode)
	}
	return g.prepareNode(n)
}

// Prepare switches the graph to a new format, re-prepares every node and
// republishes. It resizes render buffers, so the caller must ensure Render
// is not running, as audio drivers do during device reconfiguration.
// Nodes that fail to prepare are returned as a joined error and pass audio
// through until a later prepare succeeds.
func (g *Graph) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("graph: prepare: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.cfg = cfg

	var errs []error
	for _, n := range g.order {
		n.resizeScratch(cfg)
		if err := g.prepareNode(n); err != nil {
			errs = append(errs, err)
		}
	}

	g.publish()

	return errors.Join(errs...)
}

// Reset clears the processing state of every unit. Like Prepare, it must
// not run concurrently with Render.
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, n := range g.order {
		n.unit.Reset()
	}
}

// Publish compiles the staged graph and makes it the plan used by Render.
func (g *Graph) Publish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.publish()
}

// Dirty reports whether staged edits have not been published yet.
func (g *Graph) Dirty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dirty
}

// Order returns the node order of the published plan.
func (g *Graph) Order() []NodeID {
	p := g.plan.Load()
	if p == nil {
		return nil
	}
	return slices.Clone(p.order)
}

// Epoch returns the epoch of the published plan and the last epoch Render
// acknowledged.
func (g *Graph) Epoch() (published, acknowledged uint64) {
	g.mu.Lock()
	published = g.epoch
	g.mu.Unlock()
	return published, g.ack.Load()
}

func (g *Graph) prepareNode(n *Node) error {
	if n.ready.Load() && n.preparedFor == g.cfg {
		return nil
	}

	err := n.unit.Prepare(g.cfg)
	if err != nil {
		n.ready.Store(false)
		n.prepareErr = err
		g.log.WithFields(logrus.Fields{"node": n.id, "unit": n.Name()}).WithError(err).Warn("prepare failed, node passes audio through")
		return fmt.Errorf("graph: prepare node %d (%s): %w", n.id, n.Name(), err)
	}

	n.preparedFor = g.cfg
	n.prepareErr = nil
	n.ready.Store(true)

	return nil
}

func (g *Graph) publish() {
	g.epoch++
	p := g.compile(g.epoch)
	g.plan.Store(p)
	g.dirty = false

	g.log.WithFields(logrus.Fields{
		"epoch":       p.epoch,
		"nodes":       len(p.steps),
		"connections": len(g.conns),
	}).Debug("plan published")
}
