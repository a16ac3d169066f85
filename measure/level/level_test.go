package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/internal/testutil"
)

func TestMeasureSine(t *testing.T) {
	t.Parallel()

	// 1 kHz at 48 kHz: 48 samples per period, 4800 samples = 100 periods.
	x := testutil.DeterministicSine(1000, 48000, 0.5, 4800)
	r := Measure(x)

	if math.Abs(r.Peak-0.5) > 1e-3 {
		t.Errorf("Peak = %v, want 0.5", r.Peak)
	}
	if math.Abs(r.RMS-0.5/math.Sqrt2) > 1e-6 {
		t.Errorf("RMS = %v, want %v", r.RMS, 0.5/math.Sqrt2)
	}
	if math.Abs(r.PeakDB()-(-6.0206)) > 0.01 {
		t.Errorf("PeakDB = %v, want -6.02", r.PeakDB())
	}
}

func TestMeasureSilence(t *testing.T) {
	t.Parallel()

	r := Measure(make([]float64, 16))
	if r.Peak != 0 || r.RMS != 0 {
		t.Fatalf("silence reading = %+v", r)
	}
	if !math.IsInf(r.RMSDB(), -1) {
		t.Fatalf("RMSDB = %v, want -Inf", r.RMSDB())
	}
	if (Measure(nil) != Reading{}) {
		t.Fatal("empty input should read zero")
	}
}

func TestMeterAccumulates(t *testing.T) {
	t.Parallel()

	m := NewMeter(2)
	m.Add(testutil.StereoBlock(testutil.DC(1, 10), testutil.DC(0, 10)))
	m.Add(testutil.StereoBlock(testutil.DC(-0.5, 30), testutil.DC(0.25, 30)))

	if m.Frames() != 40 {
		t.Fatalf("Frames = %d, want 40", m.Frames())
	}

	got := m.Readings()
	wantRMS0 := math.Sqrt((10*1 + 30*0.25) / 40.0)
	if got[0].Peak != 1 || math.Abs(got[0].RMS-wantRMS0) > 1e-12 {
		t.Errorf("channel 0 = %+v, want peak 1 rms %v", got[0], wantRMS0)
	}
	if got[1].Peak != 0.25 {
		t.Errorf("channel 1 peak = %v, want 0.25", got[1].Peak)
	}

	m.Add(buffer.New(3, 4))
	m.Reset()
	if m.Frames() != 0 || m.Readings()[0] != (Reading{}) {
		t.Fatal("Reset should clear the meter")
	}
}
