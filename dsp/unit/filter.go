package unit

import (
	"fmt"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/filter/biquad"
	"github.com/cwbudde/algo-graph/dsp/filter/design"
)

const (
	// FilterCutoff is the highpass cutoff of the Filter unit in Hz.
	FilterCutoff = 1000.0
	// MaxFilterChannels bounds the per-channel filter state.
	MaxFilterChannels = 64
)

// Filter is a first-order Butterworth highpass with one section per channel.
type Filter struct {
	cfg  core.ProcessorConfig
	bank *biquad.Bank
}

// NewFilter returns an unprepared Filter.
func NewFilter() *Filter {
	return &Filter{bank: &biquad.Bank{}}
}

// Prepare recomputes the coefficients for cfg.SampleRate and sizes the
// section bank for cfg.NumChannels. The cutoff must lie below Nyquist.
func (f *Filter) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg == f.cfg {
		return nil
	}
	if cfg.NumChannels > MaxFilterChannels {
		return fmt.Errorf("%w: filter supports at most %d channels, got %d",
			ErrUnsupportedChannels, MaxFilterChannels, cfg.NumChannels)
	}
	coeffs := design.HighpassFirstOrder(FilterCutoff, cfg.SampleRate)
	if coeffs.IsZero() {
		return fmt.Errorf("%w: cutoff %.0f Hz not below Nyquist at %.0f Hz",
			ErrInvalidConfig, FilterCutoff, cfg.SampleRate)
	}
	f.bank.Configure(coeffs, cfg.NumChannels)
	f.cfg = cfg
	return nil
}

func (f *Filter) Process(block *buffer.Block) {
	f.bank.ProcessBlock(block)
}

// Reset clears the filter history.
func (f *Filter) Reset() {
	f.bank.Reset()
}

// Coefficients returns the active section coefficients.
func (f *Filter) Coefficients() biquad.Coefficients {
	return f.bank.Coefficients()
}

func (f *Filter) Name() string { return KindFilter.String() }
