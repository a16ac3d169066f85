package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/graph"
	"github.com/cwbudde/algo-graph/dsp/reconcile"
	"github.com/cwbudde/algo-graph/dsp/signal"
	"github.com/cwbudde/algo-graph/internal/config"
	"github.com/cwbudde/algo-graph/internal/driver"
	"github.com/cwbudde/algo-graph/internal/logging"
	"github.com/cwbudde/algo-graph/measure/level"
)

type audioDriver interface {
	driver.Clock
	Run(ctx context.Context, r driver.Renderer) error
}

// run renders cfg's scene. Logs go to logOut, the final report to out.
func run(ctx context.Context, cfg config.Config, logOut, out io.Writer) error {
	logger, err := logging.NewWithOutput(logOut, cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.WithField("run", xid.New().String())

	timeline, err := cfg.Scene.Timeline()
	if err != nil {
		return err
	}

	g := graph.New(cfg.Processor(), graph.WithLogger(log))
	defer g.Close()

	changes := 0
	opts := []reconcile.Option{
		reconcile.WithLogger(log),
		reconcile.WithObserver(func(c reconcile.Config, rep reconcile.Report, err error) {
			if rep.Changed {
				changes++
			}
			log.WithFields(logrus.Fields{
				"slots":       c.Slots,
				"bypass":      c.Bypass,
				"mute":        c.MuteInput,
				"changed":     rep.Changed,
				"connections": rep.Connections,
			}).Debug("scene applied")
		}),
	}
	if !cfg.MIDI {
		opts = append(opts, reconcile.WithoutMIDI())
	}
	rc, err := reconcile.New(g, opts...)
	if err != nil {
		return err
	}

	meter := level.NewMeter(cfg.Channels)
	capture := newCapture(analysisSize)
	drvOpts := []driver.Option{
		driver.WithSource(newSource(cfg)),
		driver.WithDuration(cfg.Duration),
		driver.WithBlockFunc(func(b *buffer.Block) {
			meter.Add(b)
			capture.Add(b.Channel(0))
		}),
	}
	if cfg.Output != "" {
		sink, err := driver.CreateWAV(cfg.Output, cfg.Processor(), cfg.BitDepth)
		if err != nil {
			return err
		}
		drvOpts = append(drvOpts, driver.WithSink(sink))
	}

	var drv audioDriver
	switch strings.ToLower(cfg.Driver) {
	case config.DriverPortAudio:
		drv, err = driver.NewPortAudio(cfg.Processor(), drvOpts...)
	default:
		drv, err = driver.NewOffline(cfg.Processor(), append(drvOpts, driver.WithSpeed(cfg.Speed))...)
	}
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"driver":      cfg.Driver,
		"sample_rate": cfg.SampleRate,
		"block_size":  cfg.BlockSize,
		"channels":    cfg.Channels,
		"duration":    cfg.Duration,
		"steps":       timeline.Len(),
	}).Info("starting")

	ctrlCtx, cancel := context.WithCancel(ctx)
	updates := make(chan reconcile.Config)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		reconcile.Poll(ctrlCtx, pollInterval(cfg), func() reconcile.Config {
			return timeline.At(drv.Position())
		}, updates)
	}()
	go func() {
		defer wg.Done()
		_ = rc.Run(ctrlCtx, updates)
	}()

	start := time.Now()
	runErr := drv.Run(ctx, g)
	cancel()
	wg.Wait()

	if runErr != nil && ctx.Err() != nil && errors.Is(runErr, ctx.Err()) {
		log.Info("interrupted")
		runErr = nil
	}
	if runErr != nil {
		return fmt.Errorf("render: %w", runErr)
	}

	log.WithFields(logrus.Fields{
		"rendered": drv.Position(),
		"elapsed":  time.Since(start).Round(time.Millisecond),
		"changes":  changes,
	}).Info("finished")

	return writeReport(out, cfg, rc, meter, capture)
}

func newSource(cfg config.Config) signal.Source {
	switch strings.ToLower(cfg.Input) {
	case config.InputSine:
		return signal.NewSine(cfg.InputFrequency, cfg.InputLevel, cfg.SampleRate)
	case config.InputNoise:
		return signal.NewNoise(cfg.InputLevel, 1)
	default:
		return signal.Silence{}
	}
}
