//go:build portaudio

package driver

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
)

// PortAudio plays rendered blocks on the default output device.
type PortAudio struct {
	cfg    core.ProcessorConfig
	opts   options
	frames atomic.Int64
}

// NewPortAudio returns a driver for the default output device.
func NewPortAudio(cfg core.ProcessorConfig, opts ...Option) (*PortAudio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	return &PortAudio{cfg: cfg, opts: applyOptions(opts)}, nil
}

// Position returns the amount of audio handed to the device so far.
func (d *PortAudio) Position() time.Duration {
	return framesToDuration(d.frames.Load(), d.cfg.SampleRate)
}

// Run opens a blocking stream and renders into it until the configured
// duration is reached or ctx is done. Pacing comes from the device.
func (d *PortAudio) Run(ctx context.Context, r Renderer) (err error) {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	defer func() {
		if terr := portaudio.Terminate(); terr != nil && err == nil {
			err = fmt.Errorf("portaudio: %w", terr)
		}
	}()

	if sink := d.opts.sink; sink != nil {
		defer func() {
			if cerr := sink.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("driver: close sink: %w", cerr)
			}
		}()
	}

	channels := d.cfg.NumChannels
	out := make([]float32, d.cfg.BlockSize*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, d.cfg.SampleRate, d.cfg.BlockSize, &out)
	if err != nil {
		return fmt.Errorf("portaudio: open: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start: %w", err)
	}
	defer stream.Stop()

	total := int64(-1)
	if d.opts.duration > 0 {
		total = int64(math.Round(d.opts.duration.Seconds() * d.cfg.SampleRate))
	}

	block := buffer.New(channels, d.cfg.BlockSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if total >= 0 && d.frames.Load() >= total {
			return nil
		}

		d.opts.source.Fill(block)
		r.Render(block)

		block.InterleaveFloat32(out)
		if err := stream.Write(); err != nil {
			return fmt.Errorf("portaudio: write: %w", err)
		}

		if d.opts.sink != nil {
			if err := d.opts.sink.Write(block); err != nil {
				return fmt.Errorf("driver: write: %w", err)
			}
		}
		if d.opts.onBlock != nil {
			d.opts.onBlock(block)
		}
		d.frames.Add(int64(block.Len()))
	}
}
