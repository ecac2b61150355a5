package dynamics_test

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/effects/dynamics"
)

func ExampleFETCompressor() {
	comp, err := dynamics.NewFETCompressor(48000)
	if err != nil {
		panic(err)
	}

	_ = comp.SetRatioMode(dynamics.Clean4)
	_ = comp.SetThreshold(-6)

	// 0 dBFS into a -6 dB threshold at 4:1.
	buf := make([]float32, 128)
	for range 40 {
		for i := range buf {
			buf[i] = 1
		}

		comp.ProcessBlock(buf, buf)
	}

	fmt.Printf("gain reduction: %.1f dB\n", comp.GainReduction())
	// Output: gain reduction: -4.5 dB
}

func ExampleOpticalCompressor() {
	comp, err := dynamics.NewOpticalCompressor(48000)
	if err != nil {
		panic(err)
	}

	for range 48000 {
		comp.ProcessSample(1)
	}

	fmt.Printf("level %.1f dB over, gain reduction %.1f dB\n", comp.RunningLevel(), comp.GainReduction())
	// Output: level 3.0 dB over, gain reduction -2.4 dB
}
