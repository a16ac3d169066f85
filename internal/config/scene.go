package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/cwbudde/algo-graph/dsp/reconcile"
	"github.com/cwbudde/algo-graph/dsp/unit"
)

// Step is one scene entry. Slots holds kind names ("" or "Empty" for no
// effect); missing trailing slots are empty and missing bypass flags false.
type Step struct {
	At        time.Duration `yaml:"at"`
	Slots     []string      `yaml:"slots"`
	Bypass    []bool        `yaml:"bypass"`
	MuteInput bool          `yaml:"mute_input"`
}

// Scene is a list of timed slot configurations.
type Scene []Step

// Timeline is a parsed scene, ordered by time.
type Timeline struct {
	at   []time.Duration
	cfgs []reconcile.Config
}

// Timeline parses every step. Steps are sorted by At; steps with equal
// times keep their order and the last one wins.
func (s Scene) Timeline() (*Timeline, error) {
	steps := make([]Step, len(s))
	copy(steps, s)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })

	tl := &Timeline{
		at:   make([]time.Duration, 0, len(steps)),
		cfgs: make([]reconcile.Config, 0, len(steps)),
	}
	for i, st := range steps {
		cfg, err := st.config()
		if err != nil {
			return nil, fmt.Errorf("scene step %d (at %s): %w", i, st.At, err)
		}
		tl.at = append(tl.at, st.At)
		tl.cfgs = append(tl.cfgs, cfg)
	}
	return tl, nil
}

func (st Step) config() (reconcile.Config, error) {
	var cfg reconcile.Config

	if st.At < 0 {
		return cfg, fmt.Errorf("negative time %s", st.At)
	}
	if len(st.Slots) > reconcile.SlotCount {
		return cfg, fmt.Errorf("%d slots, at most %d", len(st.Slots), reconcile.SlotCount)
	}
	if len(st.Bypass) > reconcile.SlotCount {
		return cfg, fmt.Errorf("%d bypass flags, at most %d", len(st.Bypass), reconcile.SlotCount)
	}

	for i, name := range st.Slots {
		k, err := unit.ParseKind(name)
		if err != nil {
			return cfg, fmt.Errorf("slot %d: %w", i, err)
		}
		cfg.Slots[i] = k
	}
	copy(cfg.Bypass[:], st.Bypass)
	cfg.MuteInput = st.MuteInput

	return cfg, nil
}

// Len returns the number of steps.
func (t *Timeline) Len() int { return len(t.at) }

// End returns the time of the last step.
func (t *Timeline) End() time.Duration {
	if len(t.at) == 0 {
		return 0
	}
	return t.at[len(t.at)-1]
}

// At returns the configuration in effect at elapsed. Before the first
// step every slot is empty.
func (t *Timeline) At(elapsed time.Duration) reconcile.Config {
	i := sort.Search(len(t.at), func(i int) bool { return t.at[i] > elapsed })
	if i == 0 {
		return reconcile.Config{}
	}
	return t.cfgs[i-1]
}
