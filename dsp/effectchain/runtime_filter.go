package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/effects/eq"
)

type eqRuntime struct {
	paramTable
	fx *eq.ParametricEQ
}

// eqBandPrefixes name the peaking bands in parameter keys, e.g. "lowMidQ".
var eqBandPrefixes = [...]struct {
	band   eq.Band
	prefix string
}{
	{eq.BandLow, "low"},
	{eq.BandLowMid, "lowMid"},
	{eq.BandHighMid, "highMid"},
	{eq.BandHigh, "high"},
}

func newEQRuntime(ctx Context) (Effect, error) {
	fx, err := eq.New(ctx.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("effectchain: eq: %w", err)
	}

	r := &eqRuntime{fx: fx}
	r.num("hpfHz", fx.HPFFreq, fx.SetHPFFreq)
	r.num("lpfHz", fx.LPFFreq, fx.SetLPFFreq)
	r.num("outputDB", fx.OutputGain, fx.SetOutputGain)

	for _, b := range eqBandPrefixes {
		band := b.band
		r.num(b.prefix+"Hz",
			func() float64 { return fx.BandParams(band).Freq },
			func(v float64) error { return fx.SetBandFreq(band, v) })
		r.num(b.prefix+"Q",
			func() float64 { return fx.BandParams(band).Q },
			func(v float64) error { return fx.SetBandQ(band, v) })
		r.num(b.prefix+"GainDB",
			func() float64 { return fx.BandParams(band).GainDB },
			func(v float64) error { return fx.SetBandGain(band, v) })
	}

	return r, nil
}

func (r *eqRuntime) ProcessBlock(dst, src []float32) { r.fx.ProcessBlock(dst, src) }
func (r *eqRuntime) Reset()                          { r.fx.Reset() }
