package driver

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
)

// Offline renders blocks in a loop on the calling goroutine.
type Offline struct {
	cfg    core.ProcessorConfig
	opts   options
	frames atomic.Int64
}

// NewOffline returns an offline driver for cfg.
func NewOffline(cfg core.ProcessorConfig, opts ...Option) (*Offline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	return &Offline{cfg: cfg, opts: applyOptions(opts)}, nil
}

// Position returns the amount of audio rendered so far. Safe to call from
// any goroutine.
func (d *Offline) Position() time.Duration {
	return framesToDuration(d.frames.Load(), d.cfg.SampleRate)
}

// Frames returns the number of frames rendered so far.
func (d *Offline) Frames() int64 { return d.frames.Load() }

// Run renders until the configured duration is reached or ctx is done.
// The sink, if any, is closed before Run returns.
func (d *Offline) Run(ctx context.Context, r Renderer) (err error) {
	if sink := d.opts.sink; sink != nil {
		defer func() {
			if cerr := sink.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("driver: close sink: %w", cerr)
			}
		}()
	}

	total := int64(-1)
	if d.opts.duration > 0 {
		total = int64(math.Round(d.opts.duration.Seconds() * d.cfg.SampleRate))
	}

	var tick <-chan time.Time
	if d.opts.speed > 0 {
		period := time.Duration(float64(framesToDuration(int64(d.cfg.BlockSize), d.cfg.SampleRate)) / d.opts.speed)
		if period > 0 {
			ticker := time.NewTicker(period)
			defer ticker.Stop()
			tick = ticker.C
		}
	}

	block := buffer.New(d.cfg.NumChannels, d.cfg.BlockSize)
	for {
		n := int64(d.cfg.BlockSize)
		if total >= 0 {
			left := total - d.frames.Load()
			if left <= 0 {
				return nil
			}
			n = min(n, left)
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		block.SetLen(int(n))
		d.opts.source.Fill(block)
		r.Render(block)

		if d.opts.sink != nil {
			if err := d.opts.sink.Write(block); err != nil {
				return fmt.Errorf("driver: write: %w", err)
			}
		}
		if d.opts.onBlock != nil {
			d.opts.onBlock(block)
		}
		d.frames.Add(n)
	}
}
