package core_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-graph/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.NumChannels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=2
}

func ExampleProcessorConfig_Validate() {
	cfg := core.ProcessorConfig{SampleRate: 48000, BlockSize: 0, NumChannels: 2}

	err := cfg.Validate()
	fmt.Println(errors.Is(err, core.ErrInvalidConfig))
	fmt.Println(err)

	// Output:
	// true
	// invalid processor config: block size must be > 0: 0
}
