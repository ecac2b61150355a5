package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/effects"
)

type exciterRuntime struct {
	paramTable
	fx *effects.Exciter
}

func newExciterRuntime(ctx Context) (Effect, error) {
	fx, err := effects.NewExciter(ctx.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("effectchain: exciter: %w", err)
	}

	r := &exciterRuntime{fx: fx}
	r.num("freqHz", fx.Frequency, fx.SetFrequency)
	r.num("clipBoostDB", fx.ClipBoost, fx.SetClipBoost)
	r.num("harmonicsPct", fx.Harmonics, fx.SetHarmonics)
	r.num("mixBackDB", fx.MixBack, fx.SetMixBack)

	return r, nil
}

func (r *exciterRuntime) ProcessBlock(dst, src []float32) { r.fx.ProcessBlock(dst, src) }
func (r *exciterRuntime) Reset()                          { r.fx.Reset() }

type tubeRuntime struct {
	paramTable
	fx *effects.TubeSaturator
}

func newTubeRuntime(ctx Context) (Effect, error) {
	fx, err := effects.NewTubeSaturator(ctx.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("effectchain: tube: %w", err)
	}

	r := &tubeRuntime{fx: fx}
	r.num("drive", fx.Drive, fx.SetDrive)
	r.num("oversampling", intGet(fx.Oversampling), intSet(fx.SetOversampling))
	r.num("lpfHz", fx.LPFFrequency, fx.SetLPFFrequency)
	r.num("makeupDB", fx.MakeupGain, fx.SetMakeupGain)
	r.num("polynomial", intGet(fx.Polynomial), intSet(fx.SetPolynomial))
	r.text("polynomial", enumGet(fx.Polynomial), enumSet(effects.ParsePolynomial, fx.SetPolynomial))

	return r, nil
}

func (r *tubeRuntime) ProcessBlock(dst, src []float32) { r.fx.ProcessBlock(dst, src) }
func (r *tubeRuntime) Reset()                          { r.fx.Reset() }

type transformerRuntime struct {
	paramTable
	fx *effects.OutputTransformer
}

func newTransformerRuntime(_ Context) (Effect, error) {
	fx := effects.NewOutputTransformer()

	r := &transformerRuntime{fx: fx}
	r.num("drive", fx.Drive, fx.SetDrive)

	return r, nil
}

func (r *transformerRuntime) ProcessBlock(dst, src []float32) { r.fx.ProcessBlock(dst, src) }
func (r *transformerRuntime) Reset()                          { r.fx.Reset() }

type denoiserRuntime struct {
	paramTable
	fx *effects.Denoiser
}

func newDenoiserRuntime(_ Context) (Effect, error) {
	return &denoiserRuntime{fx: effects.NewDenoiser()}, nil
}

func (r *denoiserRuntime) ProcessBlock(dst, src []float32) { r.fx.ProcessBlock(dst, src) }
func (r *denoiserRuntime) Reset()                          { r.fx.Reset() }
