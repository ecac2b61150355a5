package eq_test

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/effects/eq"
)

func ExampleParametricEQ_Response() {
	e, err := eq.New(48000)
	if err != nil {
		panic(err)
	}

	_ = e.SetHPFFreq(0)
	_ = e.SetLPFFreq(24000)

	for b := eq.BandLow; b <= eq.BandHigh; b++ {
		_ = e.SetBandGain(b, 0)
	}

	_ = e.SetLowMidGain(6)

	fmt.Printf("%.2f dB\n", e.Response(800))
	// Output: 6.00 dB
}
