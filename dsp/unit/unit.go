package unit

import (
	"errors"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
)

var (
	// ErrInvalidConfig is returned by Prepare for a config that cannot be
	// processed (non-positive sample rate, block size or channel count).
	ErrInvalidConfig = core.ErrInvalidConfig
	// ErrUnsupportedChannels is returned by Prepare when a unit cannot run
	// with the requested channel count.
	ErrUnsupportedChannels = errors.New("unsupported channel count")
)

// Unit is the processing contract of a graph node.
type Unit interface {
	// Prepare configures the unit for cfg. Calling it again with the same
	// config is a no-op.
	Prepare(cfg core.ProcessorConfig) error
	// Process transforms block in place.
	Process(block *buffer.Block)
	// Reset clears processing state without reallocating.
	Reset()
	// Name identifies the unit kind.
	Name() string
}

// Releaser is implemented by units holding resources that must be freed
// once the owning node is gone.
type Releaser interface {
	Release()
}
