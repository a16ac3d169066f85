package testutil

import (
	"testing"

	"github.com/cwbudde/algo-graph/dsp/buffer"
)

func TestRequireSliceNearlyEqual(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1 + 1e-12, 2}, 1e-9)
}

func TestRequireBlockNearlyEqual(t *testing.T) {
	a := StereoBlock([]float64{1, 2}, []float64{3, 4})
	b := StereoBlock([]float64{1, 2 + 1e-12}, []float64{3, 4})
	RequireBlockNearlyEqual(t, a, b, 1e-9)
}

func TestRequireSilent(t *testing.T) {
	RequireSilent(t, buffer.New(2, 8))
}
