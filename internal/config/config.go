// Package config loads the host configuration.
//
// Priority: SLOTGRAPH_* env vars > YAML file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-graph/dsp/core"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Driver names.
const (
	DriverOffline   = "offline"
	DriverPortAudio = "portaudio"
)

// Test input signals.
const (
	InputSilence = "silence"
	InputSine    = "sine"
	InputNoise   = "noise"
)

// Config holds all host configuration.
type Config struct {
	SampleRate   float64       `yaml:"sample_rate"`
	BlockSize    int           `yaml:"block_size"`
	Channels     int           `yaml:"channels"`
	LogLevel     string        `yaml:"log_level"`
	Driver       string        `yaml:"driver"`
	Duration     time.Duration `yaml:"duration"`
	Speed        float64       `yaml:"speed"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MIDI         bool          `yaml:"midi"`

	Input          string  `yaml:"input"`
	InputFrequency float64 `yaml:"input_frequency"`
	InputLevel     float64 `yaml:"input_level"`

	Output   string `yaml:"output"`
	BitDepth int    `yaml:"bit_depth"`

	Scene Scene `yaml:"scene"`
}

// Default returns the built-in configuration: a stereo 48 kHz offline run
// of a short scene that walks through the effect kinds.
func Default() Config {
	return Config{
		SampleRate:     48000,
		BlockSize:      512,
		Channels:       2,
		LogLevel:       "info",
		Driver:         DriverOffline,
		Duration:       2 * time.Second,
		Speed:          1,
		PollInterval:   100 * time.Millisecond,
		MIDI:           true,
		Input:          InputNoise,
		InputFrequency: 220,
		InputLevel:     0.25,
		BitDepth:       16,
		Scene: Scene{
			{At: 0, Slots: []string{"Gain", "", "Filter"}},
			{At: 500 * time.Millisecond, Slots: []string{"Oscillator", "Gain", "Filter"}},
			{At: time.Second, Slots: []string{"Oscillator", "Gain", "Filter"}, Bypass: []bool{false, true, false}},
			{At: 1500 * time.Millisecond, Slots: []string{"", "", ""}, MuteInput: true},
		},
	}
}

// Load layers the YAML file at path (skipped when path is empty) and the
// environment over the defaults, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []error

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	num("SLOTGRAPH_SAMPLE_RATE", &c.SampleRate)
	integer("SLOTGRAPH_BLOCK_SIZE", &c.BlockSize)
	integer("SLOTGRAPH_CHANNELS", &c.Channels)
	str("SLOTGRAPH_LOG_LEVEL", &c.LogLevel)
	str("SLOTGRAPH_DRIVER", &c.Driver)
	duration("SLOTGRAPH_DURATION", &c.Duration)
	num("SLOTGRAPH_SPEED", &c.Speed)
	duration("SLOTGRAPH_POLL_INTERVAL", &c.PollInterval)
	str("SLOTGRAPH_INPUT", &c.Input)
	str("SLOTGRAPH_OUTPUT", &c.Output)
	integer("SLOTGRAPH_BIT_DEPTH", &c.BitDepth)
	if v := os.Getenv("SLOTGRAPH_MIDI"); v != "" {
		c.MIDI = v == "true" || v == "1"
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Validate checks ranges and names and that the scene parses.
func (c Config) Validate() error {
	var errs []error

	if err := c.Processor().Validate(); err != nil {
		errs = append(errs, err)
	}

	switch strings.ToLower(c.Driver) {
	case DriverOffline, DriverPortAudio:
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q", c.Driver))
	}

	switch strings.ToLower(c.Input) {
	case InputSilence, InputSine, InputNoise:
	default:
		errs = append(errs, fmt.Errorf("unknown input %q", c.Input))
	}

	if c.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must be >= 0: %s", c.Duration))
	}
	if c.Speed <= 0 {
		errs = append(errs, fmt.Errorf("speed must be > 0: %g", c.Speed))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be > 0: %s", c.PollInterval))
	}
	if c.InputLevel < 0 || c.InputLevel > 1 {
		errs = append(errs, fmt.Errorf("input level must be in [0,1]: %g", c.InputLevel))
	}
	switch c.BitDepth {
	case 16, 24, 32:
	default:
		errs = append(errs, fmt.Errorf("bit depth must be 16, 24 or 32: %d", c.BitDepth))
	}

	if _, err := c.Scene.Timeline(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w: %w", ErrInvalid, err)
	}
	return nil
}

// Processor returns the DSP format described by c.
func (c Config) Processor() core.ProcessorConfig {
	return core.ProcessorConfig{
		SampleRate:  c.SampleRate,
		BlockSize:   c.BlockSize,
		NumChannels: c.Channels,
	}
}
