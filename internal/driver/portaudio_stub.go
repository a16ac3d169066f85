//go:build !portaudio

package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/cwbudde/algo-graph/dsp/core"
)

// PortAudio is not available in this build; rebuild with -tags portaudio.
type PortAudio struct{}

// NewPortAudio returns ErrUnavailable.
func NewPortAudio(core.ProcessorConfig, ...Option) (*PortAudio, error) {
	return nil, fmt.Errorf("portaudio: %w (build with -tags portaudio)", ErrUnavailable)
}

// Position returns zero.
func (*PortAudio) Position() time.Duration { return 0 }

// Run returns ErrUnavailable.
func (*PortAudio) Run(context.Context, Renderer) error {
	return fmt.Errorf("portaudio: %w", ErrUnavailable)
}
