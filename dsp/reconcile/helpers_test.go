package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/graph"
	"github.com/cwbudde/algo-graph/dsp/unit"
)

const (
	none = unit.KindNone
	osc  = unit.KindOscillator
	gain = unit.KindGain
	filt = unit.KindFilter
)

func testConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(32),
		core.WithNumChannels(2),
	)
}

func slots(a, b, c unit.Kind) Config {
	return Config{Slots: [SlotCount]unit.Kind{a, b, c}}
}

func newReconciler(t *testing.T, opts ...Option) *Reconciler {
	t.Helper()
	r, err := New(graph.New(testConfig()), opts...)
	require.NoError(t, err)
	return r
}

func apply(t *testing.T, r *Reconciler, cfg Config) Report {
	t.Helper()
	rep, err := r.Apply(cfg)
	require.NoError(t, err)
	return rep
}

func slotIDs(r *Reconciler) [SlotCount]graph.NodeID {
	var ids [SlotCount]graph.NodeID
	for i := range ids {
		ids[i], _ = r.Slot(i)
	}
	return ids
}

// chainConnections returns the stereo connections of in -> ids... -> out.
func chainConnections(in, out graph.NodeID, ids ...graph.NodeID) []graph.Connection {
	path := append([]graph.NodeID{in}, ids...)
	path = append(path, out)

	var conns []graph.Connection
	for i := 0; i+1 < len(path); i++ {
		for ch := range 2 {
			conns = append(conns, graph.Connection{Source: path[i], SourceChannel: ch, Dest: path[i+1], DestChannel: ch})
		}
	}
	return conns
}

// render runs one block through r's graph and returns it.
func render(r *Reconciler, in *buffer.Block) *buffer.Block {
	out := in.Copy()
	r.Graph().Render(out)
	return out
}

var errPrepare = errors.New("prepare refused")

// brokenUnit never prepares successfully.
type brokenUnit struct{}

func (brokenUnit) Prepare(core.ProcessorConfig) error { return errPrepare }
func (brokenUnit) Process(b *buffer.Block)            { b.Zero() }
func (brokenUnit) Reset()                             {}
func (brokenUnit) Name() string                       { return unit.KindGain.String() }
