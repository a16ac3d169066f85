// Command slotgraph renders audio through a three-slot effect graph while
// a scene reconfigures the slots over time.
//
// Usage:
//
//	slotgraph [flags]
//
// Examples:
//
//	slotgraph -o out.wav
//	slotgraph -config scene.yaml -speed 10
//	slotgraph -driver portaudio -duration 10s
//	slotgraph -print-config
//	slotgraph -list
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-graph/dsp/unit"
	"github.com/cwbudde/algo-graph/internal/config"
)

func main() {
	cfgPath := flag.String("config", "", "YAML configuration file")
	output := flag.String("o", "", "write the rendered audio to this wav file")
	driverName := flag.String("driver", "", "audio driver: offline or portaudio")
	duration := flag.Duration("duration", -1, "amount of audio to render (0 runs until interrupted)")
	speed := flag.Float64("speed", 0, "offline render speed relative to real time")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	list := flag.Bool("list", false, "list effect kinds and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slotgraph [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders audio through a reconfigurable three-slot effect graph.\n")
		fmt.Fprintf(os.Stderr, "Environment variables SLOTGRAPH_* override the configuration file.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, k := range unit.Kinds() {
			fmt.Println(k)
		}
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}

	if *output != "" {
		cfg.Output = *output
	}
	if *driverName != "" {
		cfg.Driver = *driverName
	}
	if *duration >= 0 {
		cfg.Duration = *duration
	}
	if *speed > 0 {
		cfg.Speed = *speed
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	if *printConfig {
		if err := yaml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
			fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stderr, os.Stdout); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "slotgraph: %v\n", err)
	os.Exit(1)
}

// pollInterval scales the configured interval so that the scene is
// sampled at the same audio-time resolution at any speed.
func pollInterval(cfg config.Config) time.Duration {
	d := time.Duration(float64(cfg.PollInterval) / cfg.Speed)
	if strings.EqualFold(cfg.Driver, config.DriverPortAudio) {
		d = cfg.PollInterval
	}
	return max(d, time.Millisecond)
}
