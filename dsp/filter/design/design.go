package design

import (
	"math"

	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Raw holds unnormalized biquad coefficients as produced by the cookbook
// formulas.
type Raw struct {
	B0, B1, B2 float64
	A0, A1, A2 float64
}

func identityRaw() Raw {
	return Raw{B0: 1, A0: 1}
}

// Normalize divides every coefficient by A0, so the result has A0 == 1.
// A zero or non-finite A0 yields the identity filter.
func (r Raw) Normalize() Raw {
	if r.A0 == 0 || math.IsNaN(r.A0) || math.IsInf(r.A0, 0) {
		return identityRaw()
	}

	inv := 1 / r.A0

	return Raw{
		B0: r.B0 * inv,
		B1: r.B1 * inv,
		B2: r.B2 * inv,
		A0: 1,
		A1: r.A1 * inv,
		A2: r.A2 * inv,
	}
}

// Coefficients normalizes r and narrows it to float32.
func (r Raw) Coefficients() biquad.Coefficients {
	n := r.Normalize()

	return biquad.Coefficients{
		B0: float32(n.B0),
		B1: float32(n.B1),
		B2: float32(n.B2),
		A1: float32(n.A1),
		A2: float32(n.A2),
	}
}

// SlopeQ converts a shelf gain (dB) and slope S into Q:
// 1/sqrt((A + 1/A)(1/S - 1) + 2) with A = 10^(gain/40).
// S = 1 gives the steepest monotonic response (Q = 1/√2 at 0 dB).
func SlopeQ(gainDB, slope float64) float64 {
	if slope <= 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return defaultQ
	}

	a := pow10(gainDB / 40)

	d := (a+1/a)*(1/slope-1) + 2
	if d <= 0 {
		return defaultQ
	}

	return 1 / sqrt(d)
}

// HighpassRaw designs a Q-based highpass.
func HighpassRaw(freq, q, sampleRate float64) Raw {
	cw, _, alpha, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return identityRaw()
	}

	return Raw{
		B0: (1 + cw) / 2,
		B1: -(1 + cw),
		B2: (1 + cw) / 2,
		A0: 1 + alpha,
		A1: -2 * cw,
		A2: 1 - alpha,
	}
}

// Highpass designs a normalized Q-based highpass.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	return HighpassRaw(freq, q, sampleRate).Coefficients()
}

// HighpassSlope designs a highpass whose Q comes from [SlopeQ](0, slope).
func HighpassSlope(freq, slope, sampleRate float64) biquad.Coefficients {
	return Highpass(freq, SlopeQ(0, slope), sampleRate)
}

// LowpassRaw designs a Q-based lowpass.
func LowpassRaw(freq, q, sampleRate float64) Raw {
	cw, _, alpha, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return identityRaw()
	}

	return Raw{
		B0: (1 - cw) / 2,
		B1: 1 - cw,
		B2: (1 - cw) / 2,
		A0: 1 + alpha,
		A1: -2 * cw,
		A2: 1 - alpha,
	}
}

// Lowpass designs a normalized Q-based lowpass.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	return LowpassRaw(freq, q, sampleRate).Coefficients()
}

// LowpassSlope designs a lowpass whose Q comes from [SlopeQ](0, slope).
func LowpassSlope(freq, slope, sampleRate float64) biquad.Coefficients {
	return Lowpass(freq, SlopeQ(0, slope), sampleRate)
}

// PeakRaw designs a peaking EQ with gain in dB.
func PeakRaw(freq, gainDB, q, sampleRate float64) Raw {
	cw, _, alpha, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return identityRaw()
	}

	a := pow10(gainDB / 40)

	return Raw{
		B0: 1 + alpha*a,
		B1: -2 * cw,
		B2: 1 - alpha*a,
		A0: 1 + alpha/a,
		A1: -2 * cw,
		A2: 1 - alpha/a,
	}
}

// Peak designs a normalized peaking EQ. A gain of exactly 0 dB returns the
// identity filter, which is what the RBJ formula reduces to.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	if gainDB == 0 {
		return biquad.Identity()
	}

	return PeakRaw(freq, gainDB, q, sampleRate).Coefficients()
}

// LowShelfRaw designs a low shelf with gain in dB.
func LowShelfRaw(freq, gainDB, q, sampleRate float64) Raw {
	cw, _, alpha, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return identityRaw()
	}

	a := pow10(gainDB / 40)
	beta := 2 * sqrt(a) * alpha

	return Raw{
		B0: a * ((a + 1) - (a-1)*cw + beta),
		B1: 2 * a * ((a - 1) - (a+1)*cw),
		B2: a * ((a + 1) - (a-1)*cw - beta),
		A0: (a + 1) + (a-1)*cw + beta,
		A1: -2 * ((a - 1) + (a+1)*cw),
		A2: (a + 1) + (a-1)*cw - beta,
	}
}

// LowShelf designs a normalized low shelf.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return LowShelfRaw(freq, gainDB, q, sampleRate).Coefficients()
}

// HighShelfRaw designs a high shelf with gain in dB.
func HighShelfRaw(freq, gainDB, q, sampleRate float64) Raw {
	cw, _, alpha, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return identityRaw()
	}

	a := pow10(gainDB / 40)
	beta := 2 * sqrt(a) * alpha

	return Raw{
		B0: a * ((a + 1) + (a-1)*cw + beta),
		B1: -2 * a * ((a - 1) + (a+1)*cw),
		B2: a * ((a + 1) + (a-1)*cw - beta),
		A0: (a + 1) - (a-1)*cw + beta,
		A1: 2 * ((a - 1) - (a+1)*cw),
		A2: (a + 1) - (a-1)*cw - beta,
	}
}

// HighShelf designs a normalized high shelf.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return HighShelfRaw(freq, gainDB, q, sampleRate).Coefficients()
}

// prewarp returns cos(w0), sin(w0) and alpha = sin(w0)/(2Q). ok is false
// when freq is outside (0, Nyquist) or the sample rate is unusable.
func prewarp(freq, q, sampleRate float64) (cw, sw, alpha float64, ok bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, 0, 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) {
		return 0, 0, 0, false
	}

	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = defaultQ
	}

	w0 := 2 * math.Pi * freq / sampleRate
	cw = math.Cos(w0)
	sw = math.Sin(w0)

	return cw, sw, sw / (2 * q), true
}
