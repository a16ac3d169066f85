package graph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/unit"
	"github.com/cwbudde/algo-graph/internal/testutil"
)

func TestRenderWithoutPlanIsSilent(t *testing.T) {
	t.Parallel()

	g := New(testConfig())
	block := testutil.NoiseBlock(1, 2, 16)
	g.Render(block)
	testutil.RequireSilent(t, block)
}

func TestRenderPassThrough(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	chain(t, g, in, out)

	block := testutil.NoiseBlock(1, 2, 16)
	want := block.Copy()
	g.Render(block)

	testutil.RequireBlockNearlyEqual(t, block, want, 0)
}

func TestRenderUnconnectedOutputIsSilent(t *testing.T) {
	t.Parallel()

	g, _, _ := ioGraph(t)
	g.Publish()

	block := testutil.NoiseBlock(1, 2, 16)
	g.Render(block)
	testutil.RequireSilent(t, block)
}

func TestRenderChain(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	a := g.AddNode(&offsetUnit{offset: 1})
	b := g.AddNode(unit.NewGain())
	require.NoError(t, g.PrepareNode(a))
	require.NoError(t, g.PrepareNode(b))
	chain(t, g, in, out, a, b)

	assert.Equal(t, []NodeID{in, a, b, out}, g.Order())

	block := testutil.StereoBlock(testutil.DC(1, 16), testutil.DC(-1, 16))
	g.Render(block)

	f := core.DBToLinear(unit.GainDB)
	testutil.RequireSliceNearlyEqual(t, block.Channel(0), testutil.DC(2*f, 16), 1e-12)
	testutil.RequireSliceNearlyEqual(t, block.Channel(1), testutil.DC(0, 16), 1e-12)
}

func TestRenderSwappedChannels(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	require.NoError(t, g.AddConnection(Connection{Source: in, SourceChannel: 0, Dest: out, DestChannel: 1}))
	require.NoError(t, g.AddConnection(Connection{Source: in, SourceChannel: 1, Dest: out, DestChannel: 0}))
	g.Publish()

	block := testutil.StereoBlock([]float64{1, 2}, []float64{3, 4})
	g.Render(block)

	assert.Equal(t, []float64{3, 4}, block.Channel(0))
	assert.Equal(t, []float64{1, 2}, block.Channel(1))
}

func TestRenderBypassPassesThrough(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	id := g.AddNode(&offsetUnit{offset: 5})
	require.NoError(t, g.PrepareNode(id))
	chain(t, g, in, out, id)

	n, _ := g.Node(id)
	n.SetBypassed(true)

	block := testutil.NoiseBlock(2, 2, 16)
	want := block.Copy()
	g.Render(block)
	testutil.RequireBlockNearlyEqual(t, block, want, 0)

	n.SetBypassed(false)
	g.Render(block)
	assert.InDelta(t, want.Channel(0)[0]+5, block.Channel(0)[0], 1e-12, "bypass is cleared without republishing")
}

func TestRenderUnpreparedNodePassesThrough(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	id := g.AddNode(&offsetUnit{offset: 5})
	chain(t, g, in, out, id)

	block := testutil.NoiseBlock(3, 2, 16)
	want := block.Copy()
	g.Render(block)
	testutil.RequireBlockNearlyEqual(t, block, want, 0)
}

func TestRenderMutedInputIsSilent(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	id := g.AddNode(unit.NewGain())
	require.NoError(t, g.PrepareNode(id))
	chain(t, g, in, out, id)

	n, _ := g.Node(in)
	n.SetBypassed(true)

	block := testutil.NoiseBlock(4, 2, 16)
	g.Render(block)
	testutil.RequireSilent(t, block)
}

func TestRenderSumsOutputs(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	out2 := g.AddNode(unit.NewIO(unit.AudioOutput))
	require.NoError(t, g.PrepareNode(out2))
	stereo(t, g, in, out)
	stereo(t, g, in, out2)
	g.Publish()

	block := testutil.StereoBlock([]float64{1, 2}, []float64{3, 4})
	g.Render(block)

	assert.Equal(t, []float64{2, 4}, block.Channel(0))
	assert.Equal(t, []float64{6, 8}, block.Channel(1))
}

func TestRenderLargeBlockInChunks(t *testing.T) {
	t.Parallel()

	// 16-frame chunks through a stateful filter must match one
	// uninterrupted pass over the same input.
	g, in, out := ioGraph(t)
	id := g.AddNode(unit.NewFilter())
	require.NoError(t, g.PrepareNode(id))
	chain(t, g, in, out, id)

	block := testutil.NoiseBlock(5, 2, 100)
	ref := block.Copy()

	f := unit.NewFilter()
	require.NoError(t, f.Prepare(testConfig()))
	f.Process(ref)

	g.Render(block)
	testutil.RequireBlockNearlyEqual(t, block, ref, 1e-12)
}

func TestRenderZeroesExtraChannels(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	chain(t, g, in, out)

	block := testutil.NoiseBlock(6, 3, 16)
	g.Render(block)

	for _, v := range block.Channel(2) {
		require.Zero(t, v)
	}
	assert.NotZero(t, block.Channel(0)[0])
}

func TestRenderDeterministicAfterReset(t *testing.T) {
	t.Parallel()

	g, in, out := ioGraph(t)
	osc := g.AddNode(unit.NewOscillator())
	flt := g.AddNode(unit.NewFilter())
	require.NoError(t, g.PrepareNode(osc))
	require.NoError(t, g.PrepareNode(flt))
	chain(t, g, in, out, flt, osc)

	input := testutil.NoiseBlock(7, 2, 64)

	first := input.Copy()
	g.Render(first)

	g.Reset()
	second := input.Copy()
	g.Render(second)

	testutil.RequireBlockNearlyEqual(t, second, first, 0)
}

func TestRenderDoesNotAllocate(t *testing.T) {
	g, in, out := ioGraph(t)
	gain := g.AddNode(unit.NewGain())
	flt := g.AddNode(unit.NewFilter())
	osc := g.AddNode(unit.NewOscillator())
	for _, id := range []NodeID{gain, flt, osc} {
		require.NoError(t, g.PrepareNode(id))
	}
	chain(t, g, in, out, flt, gain, osc)

	block := buffer.New(2, 40)
	allocs := testing.AllocsPerRun(100, func() {
		g.Render(block)
	})
	assert.Zero(t, allocs)
}

func TestRenderConcurrentWithEdits(t *testing.T) {
	g, in, out := ioGraph(t)
	chain(t, g, in, out)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		block := buffer.New(2, 16)
		for {
			select {
			case <-stop:
				return
			default:
				g.Render(block)
			}
		}
	}()

	kinds := []unit.Kind{unit.KindOscillator, unit.KindGain, unit.KindFilter}
	reg := unit.DefaultRegistry()
	var prev NodeID
	for i := range 200 {
		u, err := reg.New(kinds[i%len(kinds)])
		require.NoError(t, err)

		id := g.AddNode(u)
		require.NoError(t, g.PrepareNode(id))
		if prev != 0 {
			g.RemoveNode(prev)
		}
		g.ClearConnections()
		stereo(t, g, in, id)
		stereo(t, g, id, out)

		n, _ := g.Node(id)
		n.SetBypassed(i%2 == 0)

		g.Publish()
		g.Reclaim()
		prev = id
	}

	close(stop)
	wg.Wait()

	g.Render(buffer.New(2, 16))
	g.Reclaim()
	assert.Zero(t, g.Pending(), "all retired nodes are released once rendering caught up")
}
