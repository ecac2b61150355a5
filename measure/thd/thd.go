// Package thd measures harmonic distortion of a steady test tone.
//
// [Analyze] applies a Hann window, transforms the signal with algo-fft and
// sums the main lobe around the fundamental and around each harmonic up to
// 20 kHz or Nyquist. Levels are amplitude sums, so THD adds harmonics
// linearly rather than by power.
package thd

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

const (
	lowerHz = 20.0
	upperHz = 20000.0

	// lobeBins is the half-width of the Hann main lobe.
	lobeBins = 2
)

// Config describes the tone under test. Zero values select defaults.
type Config struct {
	SampleRate      float64 // default: the FFT size, making bins 1 Hz wide
	FFTSize         int     // zero pads; default: next power of two
	FundamentalFreq float64 // default: the strongest bin above 20 Hz
}

// Result holds distortion figures relative to the fundamental's amplitude.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64

	// Harmonics[i] is the level of harmonic i+2.
	Harmonics []float64

	THD     float64
	THDN    float64
	THD_dB  float64
	THDN_dB float64
	EvenHD  float64
	OddHD   float64
	Noise   float64
	SINAD   float64
}

// Analyze measures the distortion of signal. An empty signal yields a zero
// Result.
func Analyze(signal []float32, cfg Config) Result {
	size := cfg.FFTSize
	if size <= 0 {
		size = nextPowerOf2(len(signal))
	}

	if len(signal) == 0 || size < 2 {
		return Result{}
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = float64(size)
	}

	power, err := powerSpectrum(signal, size)
	if err != nil {
		return Result{}
	}

	return measure(power, sampleRate/float64(size), cfg.FundamentalFreq)
}

// powerSpectrum returns |X[k]|² for bins 0..size/2 of the Hann-windowed,
// zero-padded signal.
func powerSpectrum(signal []float32, size int) ([]float64, error) {
	n := min(len(signal), size)

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(signal[i])
	}

	vecmath.MulBlockInPlace(x, hann(n))

	in := make([]complex128, size)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k], im[k] = real(out[k]), imag(out[k])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return power, nil
}

// measure evaluates a power spectrum with bins binHz wide. A positive
// fundamentalHz pins the fundamental instead of searching for it.
func measure(power []float64, binHz, fundamentalHz float64) Result {
	top := len(power) - 1
	if top < 1 {
		return Result{}
	}

	lo := clampInt(int(math.Round(lowerHz/binHz)), 1, top)
	hi := clampInt(int(math.Round(upperHz/binHz)), lo, top)

	fund := lo + floats.MaxIdx(power[lo:hi+1])
	if fundamentalHz > 0 {
		fund = clampInt(int(math.Round(fundamentalHz/binHz)), lo, hi)
	}

	mag := make([]float64, len(power))
	for i, p := range power {
		if p > 0 {
			mag[i] = math.Sqrt(p)
		}
	}

	lobe := min(lobeBins, fund/2)

	res := Result{
		FundamentalFreq:  float64(fund) * binHz,
		FundamentalLevel: lobeSum(mag, fund, lobe),
	}
	if res.FundamentalLevel <= 0 {
		return res
	}

	for order := 2; order*fund <= hi; order++ {
		h := lobeSum(mag, order*fund, lobe) / res.FundamentalLevel
		res.Harmonics = append(res.Harmonics, h)

		if order%2 == 0 {
			res.EvenHD += h
		} else {
			res.OddHD += h
		}
	}

	res.THD = res.EvenHD + res.OddHD
	res.THDN = max(floats.Sum(mag[lo:hi+1])/res.FundamentalLevel-1, 0)
	res.Noise = max(res.THDN-res.THD, 0)
	res.THD_dB = toDB(res.THD)
	res.THDN_dB = toDB(res.THDN)
	res.SINAD = -res.THDN_dB

	return res
}

// hann returns the symmetric Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}

	step := 2 * math.Pi / float64(n-1)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(step*float64(i))
	}

	return w
}

// lobeSum sums mag over bin±lobe, clipped to the spectrum.
func lobeSum(mag []float64, bin, lobe int) float64 {
	if bin < 0 || bin >= len(mag) {
		return 0
	}

	return floats.Sum(mag[max(bin-lobe, 0) : min(bin+lobe, len(mag)-1)+1])
}

func toDB(ratio float64) float64 {
	if ratio <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(ratio)
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
