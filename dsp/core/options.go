package core

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a ProcessorConfig cannot drive processing.
var ErrInvalidConfig = errors.New("invalid processor config")

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate  float64
	BlockSize   int
	NumChannels int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for a stereo device.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:  48000,
		BlockSize:   512,
		NumChannels: 2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the maximum number of frames per processing block.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithNumChannels sets the number of audio channels.
func WithNumChannels(numChannels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if numChannels > 0 {
			cfg.NumChannels = numChannels
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports whether cfg can drive processing.
func (cfg ProcessorConfig) Validate() error {
	switch {
	case cfg.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be > 0: %f", ErrInvalidConfig, cfg.SampleRate)
	case cfg.BlockSize <= 0:
		return fmt.Errorf("%w: block size must be > 0: %d", ErrInvalidConfig, cfg.BlockSize)
	case cfg.NumChannels <= 0:
		return fmt.Errorf("%w: channel count must be > 0: %d", ErrInvalidConfig, cfg.NumChannels)
	}
	return nil
}
