package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestNoiseDifferentSeeds(t *testing.T) {
	a := noise(1, 1, 64)
	b := noise(2, 1, 64)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestDC(t *testing.T) {
	RequireSliceNearlyEqual(t, DC(0.25, 3), []float64{0.25, 0.25, 0.25}, 0)
}

func TestNoiseBlockChannelsDiffer(t *testing.T) {
	b := NoiseBlock(3, 2, 32)
	if b.NumChannels() != 2 || b.Len() != 32 {
		t.Fatalf("shape = %dx%d, want 2x32", b.NumChannels(), b.Len())
	}
	if b.Channel(0)[0] == b.Channel(1)[0] {
		t.Fatal("channels should use different seeds")
	}
}

func TestStereoBlockCopies(t *testing.T) {
	left := []float64{1, 2}
	b := StereoBlock(left, []float64{3, 4})
	left[0] = 9
	if b.Channel(0)[0] != 1 {
		t.Fatal("StereoBlock must copy its inputs")
	}
}
