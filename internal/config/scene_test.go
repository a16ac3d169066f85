package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-graph/dsp/reconcile"
	"github.com/cwbudde/algo-graph/dsp/unit"
)

func TestTimelineAt(t *testing.T) {
	scene := Scene{
		{At: time.Second, Slots: []string{"gain"}},
		{At: 100 * time.Millisecond, Slots: []string{"Oscillator", "", "Filter"}, Bypass: []bool{true}},
		{At: 2 * time.Second, MuteInput: true},
	}
	tl, err := scene.Timeline()
	require.NoError(t, err)
	assert.Equal(t, 3, tl.Len())
	assert.Equal(t, 2*time.Second, tl.End())

	assert.Equal(t, reconcile.Config{}, tl.At(0))

	osc := tl.At(100 * time.Millisecond)
	assert.Equal(t, [reconcile.SlotCount]unit.Kind{unit.KindOscillator, unit.KindNone, unit.KindFilter}, osc.Slots)
	assert.Equal(t, [reconcile.SlotCount]bool{true, false, false}, osc.Bypass)
	assert.Equal(t, osc, tl.At(999*time.Millisecond))

	gain := tl.At(time.Second)
	assert.Equal(t, unit.KindGain, gain.Slots[0])
	assert.False(t, gain.MuteInput)

	assert.True(t, tl.At(time.Hour).MuteInput)
}

func TestTimelineEqualTimesLastWins(t *testing.T) {
	tl, err := Scene{
		{At: 0, Slots: []string{"Gain"}},
		{At: 0, Slots: []string{"Filter"}},
	}.Timeline()
	require.NoError(t, err)
	assert.Equal(t, unit.KindFilter, tl.At(0).Slots[0])
}

func TestTimelineEmpty(t *testing.T) {
	tl, err := Scene(nil).Timeline()
	require.NoError(t, err)
	assert.Equal(t, 0, tl.Len())
	assert.Equal(t, time.Duration(0), tl.End())
	assert.Equal(t, reconcile.Config{}, tl.At(time.Second))
}

func TestTimelineErrors(t *testing.T) {
	tests := []struct {
		name string
		step Step
	}{
		{"negative", Step{At: -time.Millisecond}},
		{"too many slots", Step{Slots: []string{"", "", "", ""}}},
		{"too many bypass", Step{Bypass: []bool{false, false, false, true}}},
		{"unknown kind", Step{Slots: []string{"Chorus"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scene{tt.step}.Timeline()
			assert.Error(t, err)
		})
	}
}

func TestTimelineDoesNotReorderScene(t *testing.T) {
	scene := Scene{{At: time.Second}, {At: 0}}
	_, err := scene.Timeline()
	require.NoError(t, err)
	assert.Equal(t, time.Second, scene[0].At)
}
