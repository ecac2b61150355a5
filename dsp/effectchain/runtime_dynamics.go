package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/effects/dynamics"
)

type fetRuntime struct {
	paramTable
	fx *dynamics.FETCompressor
}

func newFETRuntime(ctx Context) (Effect, error) {
	fx, err := dynamics.NewFETCompressor(ctx.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("effectchain: fet: %w", err)
	}

	r := &fetRuntime{fx: fx}
	r.num("thresholdDB", fx.Threshold, fx.SetThreshold)
	r.num("ratioMode", intGet(fx.RatioMode), intSet(fx.SetRatioMode))
	r.num("softKnee", boolGet(fx.SoftKnee), boolSet(fx.SetSoftKnee))
	r.num("makeupDB", fx.MakeupGain, fx.SetMakeupGain)
	r.num("attackUs", fx.Attack, fx.SetAttack)
	r.num("releaseMs", fx.Release, fx.SetRelease)
	r.num("mixPct", fx.Mix, fx.SetMix)
	r.num("rmsWindowUs", fx.RMSWindow, fx.SetRMSWindow)
	r.text("ratioMode", enumGet(fx.RatioMode), enumSet(dynamics.ParseRatioMode, fx.SetRatioMode))

	return r, nil
}

func (r *fetRuntime) ProcessBlock(dst, src []float32) { r.fx.ProcessBlock(dst, src) }
func (r *fetRuntime) Reset()                          { r.fx.Reset() }
func (r *fetRuntime) GainReduction() float64          { return r.fx.GainReduction() }

type opticalRuntime struct {
	paramTable
	fx *dynamics.OpticalCompressor
}

func newOpticalRuntime(ctx Context) (Effect, error) {
	fx, err := dynamics.NewOpticalCompressor(ctx.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("effectchain: optical: %w", err)
	}

	r := &opticalRuntime{fx: fx}
	r.num("thresholdDB", fx.Threshold, fx.SetThreshold)
	r.num("biasPct", fx.Bias, fx.SetBias)
	r.num("makeupDB", fx.MakeupGain, fx.SetMakeupGain)
	r.num("blownCap", boolGet(fx.BlownCapacitor), boolSet(fx.SetBlownCapacitor))
	r.num("timeConstant", intGet(fx.TimeConstant), intSet(fx.SetTimeConstant))
	r.num("rmsWindowUs", fx.RMSWindow, fx.SetRMSWindow)

	return r, nil
}

func (r *opticalRuntime) ProcessBlock(dst, src []float32) { r.fx.ProcessBlock(dst, src) }
func (r *opticalRuntime) Reset()                          { r.fx.Reset() }
func (r *opticalRuntime) GainReduction() float64          { return r.fx.GainReduction() }
