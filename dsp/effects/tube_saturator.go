package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/fastmath"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/tphakala/simd/f32"
)

const (
	defaultTubeDrive      = 0.5
	defaultTubeOversample = 4
	defaultTubeLPFHz      = 5000.0
	minTubeLPFHz          = 20.0
	maxTubeOversample     = 8
	tubeMakeupRangeDB     = 24.0
	minTubeDriveForTanh   = 1e-6
)

// Polynomial selects the tube saturator's waveshaping polynomial.
type Polynomial int

const (
	// PolynomialChebyshev is x·(4x²(3x²−2)+3). It is odd, so it adds only
	// odd harmonics.
	PolynomialChebyshev Polynomial = iota
	// PolynomialOctave is x+x²+x⁴+x⁸, which adds even harmonics.
	PolynomialOctave
)

func (p Polynomial) String() string {
	switch p {
	case PolynomialChebyshev:
		return "chebyshev"
	case PolynomialOctave:
		return "octave"
	default:
		return fmt.Sprintf("Polynomial(%d)", int(p))
	}
}

// ParsePolynomial returns the Polynomial named s, as printed by String.
func ParsePolynomial(s string) (Polynomial, error) {
	switch s {
	case "chebyshev":
		return PolynomialChebyshev, nil
	case "octave":
		return PolynomialOctave, nil
	default:
		return 0, fmt.Errorf("tube saturator: unknown polynomial %q", s)
	}
}

// eval returns the polynomial at x.
func (p Polynomial) eval(x float32) float32 {
	if p == PolynomialOctave {
		x2 := x * x
		x4 := x2 * x2

		return x + x2 + x4 + x4*x4
	}

	x2 := x * x

	return x * (4*x2*(3*x2-2) + 3)
}

// slope returns the polynomial's derivative at 0.
func (p Polynomial) slope() float32 {
	if p == PolynomialOctave {
		return 1
	}

	return 3
}

// TubeSaturatorOption mutates construction-time parameters.
type TubeSaturatorOption func(*tubeParams) error

// WithTubePolynomial selects the waveshaping polynomial.
func WithTubePolynomial(p Polynomial) TubeSaturatorOption {
	return func(cfg *tubeParams) error {
		if p != PolynomialChebyshev && p != PolynomialOctave {
			return fmt.Errorf("tube saturator polynomial is invalid: %d", p)
		}

		cfg.poly = p

		return nil
	}
}

// WithTubeOversampling sets the number of points evaluated per sample.
// Allowed values: 1, 2, 4, 8.
func WithTubeOversampling(k int) TubeSaturatorOption {
	return func(cfg *tubeParams) error {
		if k != 1 && k != 2 && k != 4 && k != 8 {
			return fmt.Errorf("tube saturator oversampling must be one of {1,2,4,8}: %d", k)
		}

		cfg.oversample = k

		return nil
	}
}

// WithTubeDrive sets the drive in [0, 1].
func WithTubeDrive(drive float64) TubeSaturatorOption {
	return func(cfg *tubeParams) error {
		if !core.IsFinite(drive) || drive < 0 || drive > 1 {
			return fmt.Errorf("tube saturator drive must be in [0, 1]: %f", drive)
		}

		cfg.drive = drive

		return nil
	}
}

type tubeParams struct {
	drive      float64
	oversample int
	lpfHz      float64
	makeupDB   float64
	poly       Polynomial

	drive32 float32
	norm    float32
	invK    float32
	alpha   float32
	makeup  float32
}

// TubeSaturator is a tanh-of-polynomial waveshaper. Each output sample
// averages the shaper over K points on the line from the previous input to
// the current one, then passes a one-pole lowpass and makeup gain.
//
// The shaped signal is normalized to unity small-signal gain, and drive
// blends it with the dry input: drive 0 passes the input through, drive 1
// is fully shaped.
type TubeSaturator struct {
	sampleRate float64
	nyquist    float64

	p *param.Published[tubeParams]

	prev float32
	last float32
}

// NewTubeSaturator creates a TubeSaturator with defaults:
//   - Drive: 0.5
//   - Oversampling: 4 points
//   - Lowpass: 5 kHz
//   - Makeup: 0 dB
//   - Polynomial: Chebyshev
func NewTubeSaturator(sampleRate float64, opts ...TubeSaturatorOption) (*TubeSaturator, error) {
	if err := core.ValidateSampleRate("tube saturator", sampleRate); err != nil {
		return nil, err
	}

	t := &TubeSaturator{sampleRate: sampleRate, nyquist: sampleRate / 2}

	initial := tubeParams{
		drive:      defaultTubeDrive,
		oversample: defaultTubeOversample,
		lpfHz:      math.Min(defaultTubeLPFHz, t.nyquist),
		poly:       PolynomialChebyshev,
		makeup:     1,
	}

	for _, opt := range opts {
		if err := opt(&initial); err != nil {
			return nil, err
		}
	}

	t.deriveShape(&initial)
	t.deriveLPF(&initial)

	t.p = param.NewPublished(initial)

	return t, nil
}

// Drive returns the drive in [0, 1].
func (t *TubeSaturator) Drive() float64 { return t.p.Load().drive }

// Oversampling returns the number of points evaluated per sample.
func (t *TubeSaturator) Oversampling() int { return t.p.Load().oversample }

// LPFFrequency returns the lowpass corner in Hz.
func (t *TubeSaturator) LPFFrequency() float64 { return t.p.Load().lpfHz }

// MakeupGain returns the makeup gain in dB.
func (t *TubeSaturator) MakeupGain() float64 { return t.p.Load().makeupDB }

// Polynomial returns the waveshaping polynomial.
func (t *TubeSaturator) Polynomial() Polynomial { return t.p.Load().poly }

// SetDrive sets the drive, clamped to [0, 1]. 0 bypasses the shaper.
func (t *TubeSaturator) SetDrive(drive float64) error {
	return t.update("tube drive", drive, func(p *tubeParams) {
		p.drive = core.Clamp(drive, 0, 1)
		t.deriveShape(p)
	})
}

// SetOversampling sets the number of points per sample, rounded up to the
// next of 1, 2, 4 or 8.
func (t *TubeSaturator) SetOversampling(k int) error {
	return t.p.Update(func(p *tubeParams) error {
		p.oversample = roundOversampling(k)
		t.deriveShape(p)

		return nil
	})
}

// SetLPFFrequency sets the lowpass corner in Hz, clamped to [20, Nyquist].
// At Nyquist the lowpass is bypassed.
func (t *TubeSaturator) SetLPFFrequency(hz float64) error {
	return t.update("tube lpf frequency", hz, func(p *tubeParams) {
		p.lpfHz = core.Clamp(hz, minTubeLPFHz, t.nyquist)
		t.deriveLPF(p)
	})
}

// SetMakeupGain sets the output gain in dB, clamped to [-24, 24].
func (t *TubeSaturator) SetMakeupGain(dB float64) error {
	return t.update("tube makeup gain", dB, func(p *tubeParams) {
		p.makeupDB = core.Clamp(dB, -tubeMakeupRangeDB, tubeMakeupRangeDB)
		p.makeup = float32(core.DBToLinear(p.makeupDB))
	})
}

// SetPolynomial selects the waveshaping polynomial.
func (t *TubeSaturator) SetPolynomial(poly Polynomial) error {
	if poly != PolynomialChebyshev && poly != PolynomialOctave {
		return fmt.Errorf("tube saturator polynomial is invalid: %d", poly)
	}

	return t.p.Update(func(p *tubeParams) error {
		p.poly = poly
		t.deriveShape(p)

		return nil
	})
}

// Reset clears the interpolation and lowpass state.
func (t *TubeSaturator) Reset() {
	t.prev = 0
	t.last = 0
}

// ProcessSample processes one sample.
func (t *TubeSaturator) ProcessSample(x float32) float32 {
	p := t.p.Load()
	return t.tick(p, x) * p.makeup
}

// ProcessBlock processes src into dst; dst and src may alias.
func (t *TubeSaturator) ProcessBlock(dst, src []float32) {
	n := min(len(dst), len(src))
	if n == 0 {
		return
	}

	p := t.p.Load()

	for i := range n {
		dst[i] = t.tick(p, src[i])
	}

	t.last = core.FlushDenormals(t.last, fastmath.Denorm)

	if p.makeup != 1 {
		f32.Scale(dst[:n], dst[:n], p.makeup)
	}
}

func (t *TubeSaturator) tick(p *tubeParams, x float32) float32 {
	m := x - t.prev

	var dry, wet float32

	for k := 1; k <= p.oversample; k++ {
		u := t.prev + m*float32(k)*p.invK
		dry += u

		if p.drive32 > 0 {
			wet += fastmath.Tanh(p.drive32 * p.poly.eval(u))
		}
	}

	t.prev = x

	sat := dry * p.invK
	if p.drive32 > 0 {
		sat = (1-p.drive32)*sat + p.drive32*wet*p.invK*p.norm
	}

	t.last += p.alpha * (sat - t.last)

	return t.last
}

func (t *TubeSaturator) update(name string, v float64, fn func(*tubeParams)) error {
	if err := core.CheckFinite(name, v); err != nil {
		return err
	}

	return t.p.Update(func(p *tubeParams) error {
		fn(p)
		return nil
	})
}

func (t *TubeSaturator) deriveShape(p *tubeParams) {
	p.invK = 1 / float32(p.oversample)

	if p.drive < minTubeDriveForTanh {
		p.drive32 = 0
		p.norm = 0

		return
	}

	p.drive32 = float32(p.drive)
	p.norm = 1 / (p.drive32 * p.poly.slope())
}

func (t *TubeSaturator) deriveLPF(p *tubeParams) {
	if p.lpfHz >= t.nyquist {
		p.alpha = 1
		return
	}

	rc := 1 / (2 * math.Pi * p.lpfHz)
	dt := 1 / t.sampleRate
	p.alpha = float32(dt / (rc + dt))
}

func roundOversampling(k int) int {
	switch {
	case k <= 1:
		return 1
	case k <= 2:
		return 2
	case k <= 4:
		return 4
	default:
		return maxTubeOversample
	}
}
