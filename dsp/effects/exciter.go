package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/fastmath"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	defaultExciterFreqHz     = 1200.0
	defaultExciterClipDB     = 3.0
	defaultExciterHarmonics  = 25.0
	defaultExciterMixBackDB  = -6.0
	minExciterFreqHz         = 20.0
	maxExciterHarmonicsRatio = 0.9
	exciterGainRangeDB       = 24.0
)

// ExciterOption mutates construction-time parameters.
type ExciterOption func(*exciterParams) error

// WithExciterFrequency sets the highpass corner in Hz.
func WithExciterFrequency(hz float64) ExciterOption {
	return func(p *exciterParams) error {
		if !core.IsFinite(hz) || hz <= 0 {
			return fmt.Errorf("exciter frequency must be positive and finite: %f", hz)
		}

		p.freqHz = hz

		return nil
	}
}

// WithExciterHarmonics sets the shaper amount in percent [0, 100].
func WithExciterHarmonics(pct float64) ExciterOption {
	return func(p *exciterParams) error {
		if !core.IsFinite(pct) || pct < 0 || pct > 100 {
			return fmt.Errorf("exciter harmonics must be in [0, 100]: %f", pct)
		}

		p.harmonicsPct = pct

		return nil
	}
}

type exciterParams struct {
	freqHz       float64
	clipBoostDB  float64
	harmonicsPct float64
	mixBackDB    float64

	a0, b1    float32
	clipBoost float32
	foo       float32
	mixBack   float32
}

// Exciter adds upper harmonics to the top of the spectrum. The signal
// above the corner frequency is boosted into a hard clip, run through a
// level-dependent shaper, highpassed again and mixed back under the dry
// signal.
type Exciter struct {
	sampleRate float64
	nyquist    float64

	p *param.Published[exciterParams]

	t1, t2 float32
}

// NewExciter creates an Exciter with defaults:
//   - Frequency: 1200 Hz
//   - Clip boost: +3 dB
//   - Harmonics: 25 %
//   - Mix back: -6 dB
func NewExciter(sampleRate float64, opts ...ExciterOption) (*Exciter, error) {
	if err := core.ValidateSampleRate("exciter", sampleRate); err != nil {
		return nil, err
	}

	e := &Exciter{sampleRate: sampleRate, nyquist: sampleRate / 2}

	initial := exciterParams{
		freqHz:       defaultExciterFreqHz,
		clipBoostDB:  defaultExciterClipDB,
		harmonicsPct: defaultExciterHarmonics,
		mixBackDB:    defaultExciterMixBackDB,
	}

	for _, opt := range opts {
		if err := opt(&initial); err != nil {
			return nil, err
		}
	}

	initial.freqHz = core.Clamp(initial.freqHz, minExciterFreqHz, e.nyquist)
	e.deriveFilter(&initial)
	e.deriveShape(&initial)
	initial.clipBoost = nepersGain(initial.clipBoostDB)
	initial.mixBack = nepersGain(initial.mixBackDB)

	e.p = param.NewPublished(initial)

	return e, nil
}

// Frequency returns the highpass corner in Hz.
func (e *Exciter) Frequency() float64 { return e.p.Load().freqHz }

// ClipBoost returns the pre-clip boost in dB.
func (e *Exciter) ClipBoost() float64 { return e.p.Load().clipBoostDB }

// Harmonics returns the shaper amount in percent.
func (e *Exciter) Harmonics() float64 { return e.p.Load().harmonicsPct }

// MixBack returns the level of the excited signal in dB.
func (e *Exciter) MixBack() float64 { return e.p.Load().mixBackDB }

// SetFrequency sets the highpass corner in Hz, clamped to [20, Nyquist].
func (e *Exciter) SetFrequency(hz float64) error {
	return e.update("exciter frequency", hz, func(p *exciterParams) {
		p.freqHz = core.Clamp(hz, minExciterFreqHz, e.nyquist)
		e.deriveFilter(p)
	})
}

// SetClipBoost sets the gain into the clipper in dB, clamped to [-24, 24].
func (e *Exciter) SetClipBoost(dB float64) error {
	return e.update("exciter clip boost", dB, func(p *exciterParams) {
		p.clipBoostDB = core.Clamp(dB, -exciterGainRangeDB, exciterGainRangeDB)
		p.clipBoost = nepersGain(p.clipBoostDB)
	})
}

// SetHarmonics sets the shaper amount in percent, clamped to [0, 100].
// Above 90 % the shaper no longer changes.
func (e *Exciter) SetHarmonics(pct float64) error {
	return e.update("exciter harmonics", pct, func(p *exciterParams) {
		p.harmonicsPct = core.Clamp(pct, 0, 100)
		e.deriveShape(p)
	})
}

// SetMixBack sets the level of the excited signal in dB, clamped to
// [-24, 24].
func (e *Exciter) SetMixBack(dB float64) error {
	return e.update("exciter mix back", dB, func(p *exciterParams) {
		p.mixBackDB = core.Clamp(dB, -exciterGainRangeDB, exciterGainRangeDB)
		p.mixBack = nepersGain(p.mixBackDB)
	})
}

// Reset clears the filter states.
func (e *Exciter) Reset() {
	e.t1 = 0
	e.t2 = 0
}

// ProcessSample processes one sample.
func (e *Exciter) ProcessSample(x float32) float32 {
	return e.tick(e.p.Load(), x)
}

// ProcessBlock processes src into dst; dst and src may alias.
func (e *Exciter) ProcessBlock(dst, src []float32) {
	n := min(len(dst), len(src))
	p := e.p.Load()

	for i := range n {
		dst[i] = e.tick(p, src[i])
	}
}

func (e *Exciter) tick(p *exciterParams, x float32) float32 {
	s := x

	e.t1 = p.a0*s - p.b1*e.t1 + fastmath.Denorm
	s -= e.t1

	s = core.Clamp32(s*p.clipBoost, -1, 1)
	s = (1 + p.foo) * s / (1 + p.foo*fastmath.Abs(x))

	e.t2 = p.a0*s - p.b1*e.t2 + fastmath.Denorm
	s -= e.t2

	return x + s*p.mixBack
}

func (e *Exciter) update(name string, v float64, fn func(*exciterParams)) error {
	if err := core.CheckFinite(name, v); err != nil {
		return err
	}

	return e.p.Update(func(p *exciterParams) error {
		fn(p)
		return nil
	})
}

func (e *Exciter) deriveFilter(p *exciterParams) {
	x := math.Exp(-2 * math.Pi * p.freqHz / e.sampleRate)
	p.a0 = float32(1 - x)
	p.b1 = float32(-x)
}

func (e *Exciter) deriveShape(p *exciterParams) {
	h := min(p.harmonicsPct/100, maxExciterHarmonicsRatio)
	p.foo = float32(2 * h / (1 - h))
}

// nepersGain converts dB to a linear factor with the LogToDB calibration
// shared by the dynamics detectors.
func nepersGain(dB float64) float32 {
	return float32(math.Exp(dB / fastmath.LogToDB))
}
