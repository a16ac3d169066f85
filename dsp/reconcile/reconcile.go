package reconcile

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/graph"
	"github.com/cwbudde/algo-graph/dsp/unit"
)

// SlotCount is the number of effect slots.
const SlotCount = 3

// ChainChannels is the number of channels wired through the chain,
// starting at channel 0. Graphs with fewer channels wire all of theirs.
const ChainChannels = 2

// Config is a desired slot configuration.
type Config struct {
	Slots     [SlotCount]unit.Kind
	Bypass    [SlotCount]bool
	MuteInput bool
}

// Report describes what one Apply call changed.
type Report struct {
	Changed     bool
	Added       []graph.NodeID
	Removed     []graph.NodeID
	Connections int
}

// Reconciler maps slots to graph nodes. Apply, SetFormat and Run must not
// be used concurrently.
type Reconciler struct {
	g        *graph.Graph
	registry *unit.Registry
	log      logrus.FieldLogger
	midi     bool
	observe  func(Config, Report, error)

	input, output         graph.NodeID
	midiInput, midiOutput graph.NodeID

	slots [SlotCount]graph.NodeID
	kinds [SlotCount]unit.Kind
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithRegistry sets the registry effect nodes are built from.
func WithRegistry(r *unit.Registry) Option {
	return func(rc *Reconciler) {
		if r != nil {
			rc.registry = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(rc *Reconciler) {
		if l != nil {
			rc.log = l
		}
	}
}

// WithObserver registers fn to be called after every Apply made by Run.
func WithObserver(fn func(Config, Report, error)) Option {
	return func(rc *Reconciler) {
		rc.observe = fn
	}
}

// WithoutMIDI skips the MIDI endpoint nodes.
func WithoutMIDI() Option {
	return func(rc *Reconciler) {
		rc.midi = false
	}
}

// New adds the endpoint nodes to g, connects the audio input straight to
// the audio output and publishes. The MIDI endpoints are created but never
// connected.
func New(g *graph.Graph, opts ...Option) (*Reconciler, error) {
	if g == nil {
		return nil, errors.New("reconcile: nil graph")
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Reconciler{
		g:        g,
		registry: unit.DefaultRegistry(),
		log:      discard,
		midi:     true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	r.input = g.AddNode(unit.NewIO(unit.AudioInput))
	r.output = g.AddNode(unit.NewIO(unit.AudioOutput))
	if r.midi {
		r.midiInput = g.AddNode(unit.NewIO(unit.MIDIInput))
		r.midiOutput = g.AddNode(unit.NewIO(unit.MIDIOutput))
	}

	var errs []error
	for _, id := range r.endpoints() {
		if err := g.PrepareNode(id); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := r.connectChain(nil); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("reconcile: initialise graph: %w", err)
	}

	g.Publish()

	r.log.WithFields(logrus.Fields{
		"input":  r.input,
		"output": r.output,
		"midi":   r.midi,
	}).Info("graph initialised")

	return r, nil
}

// Graph returns the reconciled graph.
func (r *Reconciler) Graph() *graph.Graph { return r.g }

// Input returns the audio input node.
func (r *Reconciler) Input() graph.NodeID { return r.input }

// Output returns the audio output node.
func (r *Reconciler) Output() graph.NodeID { return r.output }

// MIDI returns the MIDI endpoint nodes, or zero ids without MIDI.
func (r *Reconciler) MIDI() (in, out graph.NodeID) { return r.midiInput, r.midiOutput }

// Slot returns the node and kind occupying slot i (0-based).
func (r *Reconciler) Slot(i int) (graph.NodeID, unit.Kind) {
	if i < 0 || i >= SlotCount {
		return 0, unit.KindNone
	}
	return r.slots[i], r.kinds[i]
}

// Current returns the configuration the graph holds now. Bypass flags are
// read back from the nodes.
func (r *Reconciler) Current() Config {
	var cfg Config
	for i := range SlotCount {
		cfg.Slots[i] = r.kinds[i]
		if n, ok := r.g.Node(r.slots[i]); ok {
			cfg.Bypass[i] = n.Bypassed()
		}
	}
	if n, ok := r.g.Node(r.input); ok {
		cfg.MuteInput = n.Bypassed()
	}
	return cfg
}

// Apply converges the graph to cfg. Slots whose occupant already has the
// desired kind keep their node. When any slot changed, every connection is
// torn down and the chain is rebuilt over the occupied slots in order.
// Bypass and mute flags are applied on every call.
//
// Failures (an unknown kind, a node that cannot be prepared) do not stop
// the pass: the slot is left empty or its node passes audio through, and
// all failures are returned joined.
func (r *Reconciler) Apply(cfg Config) (Report, error) {
	var (
		rep  Report
		errs []error
	)

	for i := range SlotCount {
		desired := cfg.Slots[i]
		occupant := r.slots[i]

		if occupant != 0 && r.occupantName(i) == desired.String() {
			continue
		}
		if occupant == 0 && desired == unit.KindNone {
			continue
		}

		if occupant != 0 {
			r.g.RemoveNode(occupant)
			rep.Removed = append(rep.Removed, occupant)
			r.slots[i], r.kinds[i] = 0, unit.KindNone
		}
		rep.Changed = true

		if desired == unit.KindNone {
			continue
		}

		u, err := r.registry.New(desired)
		if err != nil {
			errs = append(errs, fmt.Errorf("slot %d: %w", i+1, err))
			continue
		}

		id := r.g.AddNode(u)
		r.slots[i], r.kinds[i] = id, desired
		rep.Added = append(rep.Added, id)
	}

	if rep.Changed {
		r.g.ClearConnections()

		active := make([]graph.NodeID, 0, SlotCount)
		for _, id := range r.slots {
			if id == 0 {
				continue
			}
			if err := r.g.PrepareNode(id); err != nil {
				errs = append(errs, err)
			}
			active = append(active, id)
		}

		n, err := r.connectChain(active)
		if err != nil {
			errs = append(errs, err)
		}
		rep.Connections = n
	}

	for i, id := range r.slots {
		if n, ok := r.g.Node(id); ok {
			n.SetBypassed(cfg.Bypass[i])
		}
	}
	if n, ok := r.g.Node(r.input); ok {
		n.SetBypassed(cfg.MuteInput)
	}

	if rep.Changed {
		r.g.Publish()
	}
	r.g.Reclaim()

	if rep.Changed {
		r.log.WithFields(logrus.Fields{
			"slots":       r.kinds,
			"added":       rep.Added,
			"removed":     rep.Removed,
			"connections": rep.Connections,
		}).Debug("graph reconciled")
	}

	return rep, errors.Join(errs...)
}

// SetFormat re-prepares the graph for a new device format. Rendering must
// be stopped while it runs.
func (r *Reconciler) SetFormat(cfg core.ProcessorConfig) error {
	if err := r.g.Prepare(cfg); err != nil {
		return fmt.Errorf("reconcile: set format: %w", err)
	}
	return nil
}

func (r *Reconciler) occupantName(i int) string {
	n, ok := r.g.Node(r.slots[i])
	if !ok {
		return ""
	}
	return n.Name()
}

// connectChain wires input -> active... -> output per channel and
// returns the number of connections made.
func (r *Reconciler) connectChain(active []graph.NodeID) (int, error) {
	path := make([]graph.NodeID, 0, len(active)+2)
	path = append(path, r.input)
	path = append(path, active...)
	path = append(path, r.output)

	channels := min(ChainChannels, r.g.Config().NumChannels)

	var (
		made int
		errs []error
	)
	for i := 0; i+1 < len(path); i++ {
		for ch := range channels {
			err := r.g.AddConnection(graph.Connection{
				Source:        path[i],
				SourceChannel: ch,
				Dest:          path[i+1],
				DestChannel:   ch,
			})
			if err != nil {
				errs = append(errs, err)
				continue
			}
			made++
		}
	}
	return made, errors.Join(errs...)
}

func (r *Reconciler) endpoints() []graph.NodeID {
	ids := []graph.NodeID{r.input, r.output}
	if r.midi {
		ids = append(ids, r.midiInput, r.midiOutput)
	}
	return ids
}
