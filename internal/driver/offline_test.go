package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
	"github.com/cwbudde/algo-graph/dsp/signal"
)

var testConfig = core.ProcessorConfig{SampleRate: 1000, BlockSize: 64, NumChannels: 2}

// constRenderer overwrites every sample with value.
type constRenderer struct {
	value float64
	calls int
}

func (r *constRenderer) Render(block *buffer.Block) {
	r.calls++
	for _, ch := range block.Channels() {
		for i := range ch {
			ch[i] = r.value
		}
	}
}

// halfRenderer scales the block by 0.5.
type halfRenderer struct{}

func (halfRenderer) Render(block *buffer.Block) {
	for _, ch := range block.Channels() {
		for i := range ch {
			ch[i] *= 0.5
		}
	}
}

type memorySink struct {
	frames   int
	closed   int
	writeErr error
}

func (s *memorySink) Write(block *buffer.Block) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.frames += block.Len()
	return nil
}

func (s *memorySink) Close() error {
	s.closed++
	return nil
}

func TestNewOfflineRejectsInvalidConfig(t *testing.T) {
	_, err := NewOffline(core.ProcessorConfig{SampleRate: 48000})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestOfflineRendersDuration(t *testing.T) {
	var lens []int
	sink := &memorySink{}
	d, err := NewOffline(testConfig,
		WithDuration(time.Second),
		WithSink(sink),
		WithBlockFunc(func(b *buffer.Block) { lens = append(lens, b.Len()) }),
	)
	require.NoError(t, err)

	r := &constRenderer{value: 0.25}
	require.NoError(t, d.Run(context.Background(), r))

	assert.Equal(t, int64(1000), d.Frames())
	assert.Equal(t, time.Second, d.Position())
	assert.Equal(t, 1000, sink.frames)
	assert.Equal(t, 1, sink.closed)
	require.Len(t, lens, 16)
	assert.Equal(t, 40, lens[15])
	assert.Equal(t, 16, r.calls)
}

func TestOfflineFeedsSource(t *testing.T) {
	src := signal.NewSine(100, 1, testConfig.SampleRate)
	ref := signal.NewSine(100, 1, testConfig.SampleRate)

	var got []float64
	d, err := NewOffline(testConfig,
		WithSource(src),
		WithDuration(128*time.Millisecond),
		WithBlockFunc(func(b *buffer.Block) {
			got = append(got, b.Channel(1)...)
		}),
	)
	require.NoError(t, err)
	require.NoError(t, d.Run(context.Background(), halfRenderer{}))

	require.Len(t, got, 128)
	for i, x := range got {
		assert.InDelta(t, 0.5*ref.Next(), x, 1e-12, "sample %d", i)
	}
}

func TestOfflineStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blocks := 0
	sink := &memorySink{}
	d, err := NewOffline(testConfig,
		WithSink(sink),
		WithBlockFunc(func(*buffer.Block) {
			blocks++
			if blocks == 5 {
				cancel()
			}
		}),
	)
	require.NoError(t, err)

	err = d.Run(ctx, &constRenderer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, blocks)
	assert.Equal(t, 1, sink.closed)
	assert.Equal(t, 5*64*time.Millisecond, d.Position())
}

func TestOfflinePacing(t *testing.T) {
	// 64 ms blocks at 64x speed tick every millisecond.
	d, err := NewOffline(testConfig, WithDuration(640*time.Millisecond), WithSpeed(64))
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, d.Run(context.Background(), &constRenderer{}))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestOfflinePacingHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d, err := NewOffline(testConfig, WithSpeed(0.001))
	require.NoError(t, err)
	assert.ErrorIs(t, d.Run(ctx, &constRenderer{}), context.DeadlineExceeded)
	assert.Equal(t, int64(0), d.Frames())
}

func TestOfflineSinkError(t *testing.T) {
	errDisk := errors.New("disk full")
	sink := &memorySink{writeErr: errDisk}
	d, err := NewOffline(testConfig, WithDuration(time.Second), WithSink(sink))
	require.NoError(t, err)

	err = d.Run(context.Background(), &constRenderer{})
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 1, sink.closed)
	assert.Equal(t, int64(0), d.Frames())
}
