// Package driver runs a Renderer against a clock: either an offline loop
// writing to a Sink or, built with the portaudio tag, a live device.
package driver

import (
	"errors"
	"time"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/signal"
)

// ErrUnavailable is returned by drivers not compiled into the binary.
var ErrUnavailable = errors.New("driver unavailable")

// Renderer processes one block in place.
type Renderer interface {
	Render(block *buffer.Block)
}

// Sink consumes rendered blocks.
type Sink interface {
	Write(block *buffer.Block) error
	Close() error
}

// Clock reports how much audio a driver has rendered.
type Clock interface {
	Position() time.Duration
}

// BlockFunc is called after every rendered block, on the audio goroutine.
// It must not retain block.
type BlockFunc func(block *buffer.Block)

type options struct {
	source   signal.Source
	sink     Sink
	onBlock  BlockFunc
	duration time.Duration
	speed    float64
}

// Option configures a driver.
type Option func(*options)

// WithSource sets the signal fed to the graph input. Defaults to silence.
func WithSource(s signal.Source) Option {
	return func(o *options) {
		if s != nil {
			o.source = s
		}
	}
}

// WithSink sets where rendered blocks are written.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithBlockFunc registers fn to observe every rendered block.
func WithBlockFunc(fn BlockFunc) Option {
	return func(o *options) { o.onBlock = fn }
}

// WithDuration limits how much audio is rendered. Zero renders until the
// context is cancelled.
func WithDuration(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.duration = d
		}
	}
}

// WithSpeed paces the offline driver at speed times real time. Zero
// disables pacing.
func WithSpeed(speed float64) Option {
	return func(o *options) {
		if speed >= 0 {
			o.speed = speed
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{source: signal.Silence{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func framesToDuration(frames int64, sampleRate float64) time.Duration {
	return time.Duration(float64(frames) * float64(time.Second) / sampleRate)
}
