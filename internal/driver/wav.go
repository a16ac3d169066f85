package driver

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-graph/dsp/buffer"
	"github.com/cwbudde/algo-graph/dsp/core"
)

// ErrUnsupportedBitDepth is returned for bit depths other than 16, 24 and 32.
var ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit depth is supported")

const pcmFormat = 1

// WAVSink writes rendered blocks to a PCM wav file.
type WAVSink struct {
	path    string
	file    *os.File
	encoder *wav.Encoder
	ib      *audio.IntBuffer
	scale   float64
}

// CreateWAV creates the file at path and returns a sink for blocks in
// cfg's format. Samples are clipped to [-1, 1].
func CreateWAV(path string, cfg core.ProcessorConfig, bitDepth int) (*WAVSink, error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("wav %s: %w: %d", path, ErrUnsupportedBitDepth, bitDepth)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("wav %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	sampleRate := int(cfg.SampleRate)
	return &WAVSink{
		path:    path,
		file:    f,
		encoder: wav.NewEncoder(f, sampleRate, bitDepth, cfg.NumChannels, pcmFormat),
		ib: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: cfg.NumChannels,
				SampleRate:  sampleRate,
			},
			Data:           make([]int, cfg.BlockSize*cfg.NumChannels),
			SourceBitDepth: bitDepth,
		},
		scale: float64(int64(1)<<(bitDepth-1) - 1),
	}, nil
}

// Path returns the file path.
func (s *WAVSink) Path() string { return s.path }

// Write interleaves block into the encoder. Channels beyond the file's
// channel count are dropped; missing ones are written as silence.
func (s *WAVSink) Write(block *buffer.Block) error {
	channels := s.ib.Format.NumChannels
	n := block.Len() * channels
	if cap(s.ib.Data) < n {
		s.ib.Data = make([]int, n)
	}
	s.ib.Data = s.ib.Data[:n]

	for c := range channels {
		if c >= block.NumChannels() {
			for i := range block.Len() {
				s.ib.Data[i*channels+c] = 0
			}
			continue
		}
		for i, x := range block.Channel(c) {
			s.ib.Data[i*channels+c] = int(core.Clamp(x, -1, 1) * s.scale)
		}
	}

	if err := s.encoder.Write(s.ib); err != nil {
		return fmt.Errorf("wav %s: %w", s.path, err)
	}
	return nil
}

// Close finalises the header and closes the file. Later calls are no-ops.
func (s *WAVSink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.encoder.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.file = nil
	if err != nil {
		return fmt.Errorf("wav %s: %w", s.path, err)
	}
	return nil
}
