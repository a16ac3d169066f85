package unit

import (
	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
)

// IOKind identifies a fixed graph endpoint.
type IOKind uint8

const (
	AudioInput IOKind = iota
	AudioOutput
	MIDIInput
	MIDIOutput
)

func (k IOKind) String() string {
	switch k {
	case AudioInput:
		return "Audio Input"
	case AudioOutput:
		return "Audio Output"
	case MIDIInput:
		return "MIDI Input"
	case MIDIOutput:
		return "MIDI Output"
	default:
		return "Unknown I/O"
	}
}

// IOProcessor marks a graph endpoint. The graph moves audio in and out of
// these nodes itself, so Process does nothing.
type IOProcessor struct {
	kind IOKind
}

// NewIO returns an endpoint marker of the given kind.
func NewIO(kind IOKind) *IOProcessor {
	return &IOProcessor{kind: kind}
}

// Kind returns the endpoint kind.
func (p *IOProcessor) Kind() IOKind { return p.kind }

func (p *IOProcessor) Prepare(cfg core.ProcessorConfig) error {
	return cfg.Validate()
}

func (p *IOProcessor) Process(*buffer.Block) {}

func (p *IOProcessor) Reset() {}

func (p *IOProcessor) Name() string { return p.kind.String() }

// IsIO reports whether u is an endpoint marker and, if so, its kind.
func IsIO(u Unit) (IOKind, bool) {
	p, ok := u.(*IOProcessor)
	if !ok {
		return 0, false
	}
	return p.kind, true
}
