package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-graph/dsp/buffer"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireBlockNearlyEqual compares two blocks channel by channel.
func RequireBlockNearlyEqual(t *testing.T, got, want *buffer.Block, eps float64) {
	t.Helper()
	if got.NumChannels() != want.NumChannels() {
		t.Fatalf("channel count mismatch: got %d, want %d", got.NumChannels(), want.NumChannels())
	}
	for ch := range got.NumChannels() {
		g, w := got.Channel(ch), want.Channel(ch)
		if len(g) != len(w) {
			t.Fatalf("channel %d: length mismatch: got %d, want %d", ch, len(g), len(w))
		}
		for i := range g {
			if diff := math.Abs(g[i] - w[i]); diff > eps {
				t.Fatalf("channel %d index %d: got %v, want %v (diff %v > eps %v)", ch, i, g[i], w[i], diff, eps)
			}
		}
	}
}

// RequireSilent fails t if any sample of block is non-zero.
func RequireSilent(t *testing.T, block *buffer.Block) {
	t.Helper()
	for ch, data := range block.Channels() {
		for i, v := range data {
			if v != 0 {
				t.Fatalf("channel %d index %d: got %v, want silence", ch, i, v)
			}
		}
	}
}
