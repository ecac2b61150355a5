package eq

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/fastmath"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/design"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/tphakala/simd/f32"
)

const (
	defaultHPFFreq = 30.0
	defaultLPFFreq = 8000.0

	minQ      = 0.1
	maxQ      = 24.0
	minGainDB = -24.0
	maxGainDB = 24.0

	hpfSlope = 1.0
	lpfSlope = 2.0
)

// Band selects one of the four peaking bands.
type Band int

const (
	// BandLow is the lowest peaking band.
	BandLow Band = iota
	// BandLowMid is the lower-mid peaking band.
	BandLowMid
	// BandHighMid is the upper-mid peaking band.
	BandHighMid
	// BandHigh is the highest peaking band.
	BandHigh

	numBands
)

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandLowMid:
		return "low-mid"
	case BandHighMid:
		return "high-mid"
	case BandHigh:
		return "high"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// BandParams are the user-facing controls of one peaking band.
type BandParams struct {
	Freq   float64 // Hz, 0 bypasses the band
	Q      float64
	GainDB float64 // 0 bypasses the band
}

var defaultBands = [numBands]BandParams{
	BandLow:     {Freq: 315, Q: 1, GainDB: 1},
	BandLowMid:  {Freq: 800, Q: 2, GainDB: 3},
	BandHighMid: {Freq: 2500, Q: 1, GainDB: 1},
	BandHigh:    {Freq: 9000, Q: 0.5, GainDB: -3},
}

// eqParams is the published snapshot: user controls plus everything the
// audio path derives from them.
type eqParams struct {
	hpfFreq      float64
	lpfFreq      float64
	outputGainDB float64
	bands        [numBands]BandParams

	hpf, lpf  biquad.Coefficients
	peaks     [numBands]biquad.Coefficients
	hpfOn     bool
	lpfOn     bool
	peakOn    [numBands]bool
	outputLin float32
}

// ParametricEQ is a mono six-stage equalizer.
//
// Setters may be called from any goroutine while another goroutine runs
// ProcessBlock; each block sees one complete coefficient set.
type ParametricEQ struct {
	sampleRate float64
	nyquist    float64

	p *param.Published[eqParams]

	hpfHist  biquad.History
	peakHist [numBands]biquad.History
	lpfHist  biquad.History
}

// New creates a ParametricEQ with default settings:
//   - Highpass: 30 Hz
//   - Low: 315 Hz, Q 1, +1 dB
//   - Low-mid: 800 Hz, Q 2, +3 dB
//   - High-mid: 2500 Hz, Q 1, +1 dB
//   - High: 9 kHz, Q 0.5, -3 dB
//   - Lowpass: 8 kHz
//   - Output: 0 dB
func New(sampleRate float64) (*ParametricEQ, error) {
	if err := core.ValidateSampleRate("parametric eq", sampleRate); err != nil {
		return nil, err
	}

	e := &ParametricEQ{
		sampleRate: sampleRate,
		nyquist:    sampleRate / 2,
	}

	initial := eqParams{
		hpfFreq: defaultHPFFreq,
		lpfFreq: math.Min(defaultLPFFreq, e.nyquist),
		bands:   defaultBands,
	}

	e.deriveHPF(&initial)
	e.deriveLPF(&initial)

	for b := range numBands {
		e.derivePeak(&initial, b)
	}

	e.deriveOutput(&initial)

	e.p = param.NewPublished(initial)

	return e, nil
}

// SampleRate returns the sample rate in Hz.
func (e *ParametricEQ) SampleRate() float64 { return e.sampleRate }

// SetHPFFreq sets the highpass cutoff in Hz, clamped to [0, Nyquist].
// 0 bypasses the highpass.
func (e *ParametricEQ) SetHPFFreq(hz float64) error {
	if err := core.CheckFinite("eq hpf frequency", hz); err != nil {
		return err
	}

	return e.p.Update(func(p *eqParams) error {
		p.hpfFreq = core.Clamp(hz, 0, e.nyquist)
		e.deriveHPF(p)

		return nil
	})
}

// SetLPFFreq sets the lowpass cutoff in Hz, clamped to [0, Nyquist].
// At Nyquist the lowpass is bypassed.
func (e *ParametricEQ) SetLPFFreq(hz float64) error {
	if err := core.CheckFinite("eq lpf frequency", hz); err != nil {
		return err
	}

	return e.p.Update(func(p *eqParams) error {
		p.lpfFreq = core.Clamp(hz, 0, e.nyquist)
		e.deriveLPF(p)

		return nil
	})
}

// SetOutputGain sets the output gain in dB, clamped to [-24, 24].
func (e *ParametricEQ) SetOutputGain(dB float64) error {
	if err := core.CheckFinite("eq output gain", dB); err != nil {
		return err
	}

	return e.p.Update(func(p *eqParams) error {
		p.outputGainDB = core.Clamp(dB, minGainDB, maxGainDB)
		e.deriveOutput(p)

		return nil
	})
}

// SetBand sets all controls of one band in a single update.
func (e *ParametricEQ) SetBand(b Band, bp BandParams) error {
	if err := e.checkBand(b); err != nil {
		return err
	}

	fields := [...]struct {
		name string
		v    float64
	}{{"freq", bp.Freq}, {"q", bp.Q}, {"gain", bp.GainDB}}

	for _, f := range fields {
		if err := core.CheckFinite("eq "+b.String()+" "+f.name, f.v); err != nil {
			return err
		}
	}

	return e.p.Update(func(p *eqParams) error {
		p.bands[b] = e.clampBand(bp)
		e.derivePeak(p, b)

		return nil
	})
}

// SetBandFreq sets the center frequency of a band in Hz, clamped to
// [0, Nyquist]. 0 bypasses the band.
func (e *ParametricEQ) SetBandFreq(b Band, hz float64) error {
	return e.updateBand(b, "freq", hz, func(bp *BandParams) { bp.Freq = hz })
}

// SetBandQ sets the quality factor of a band, clamped to [0.1, 24].
func (e *ParametricEQ) SetBandQ(b Band, q float64) error {
	return e.updateBand(b, "q", q, func(bp *BandParams) { bp.Q = q })
}

// SetBandGain sets the gain of a band in dB, clamped to [-24, 24].
// 0 dB bypasses the band.
func (e *ParametricEQ) SetBandGain(b Band, dB float64) error {
	return e.updateBand(b, "gain", dB, func(bp *BandParams) { bp.GainDB = dB })
}

// SetLowFreq sets the low band frequency in Hz.
func (e *ParametricEQ) SetLowFreq(hz float64) error { return e.SetBandFreq(BandLow, hz) }

// SetLowQ sets the low band Q.
func (e *ParametricEQ) SetLowQ(q float64) error { return e.SetBandQ(BandLow, q) }

// SetLowGain sets the low band gain in dB.
func (e *ParametricEQ) SetLowGain(dB float64) error { return e.SetBandGain(BandLow, dB) }

// SetLowMidFreq sets the low-mid band frequency in Hz.
func (e *ParametricEQ) SetLowMidFreq(hz float64) error { return e.SetBandFreq(BandLowMid, hz) }

// SetLowMidQ sets the low-mid band Q.
func (e *ParametricEQ) SetLowMidQ(q float64) error { return e.SetBandQ(BandLowMid, q) }

// SetLowMidGain sets the low-mid band gain in dB.
func (e *ParametricEQ) SetLowMidGain(dB float64) error { return e.SetBandGain(BandLowMid, dB) }

// SetHighMidFreq sets the high-mid band frequency in Hz.
func (e *ParametricEQ) SetHighMidFreq(hz float64) error { return e.SetBandFreq(BandHighMid, hz) }

// SetHighMidQ sets the high-mid band Q.
func (e *ParametricEQ) SetHighMidQ(q float64) error { return e.SetBandQ(BandHighMid, q) }

// SetHighMidGain sets the high-mid band gain in dB.
func (e *ParametricEQ) SetHighMidGain(dB float64) error { return e.SetBandGain(BandHighMid, dB) }

// SetHighFreq sets the high band frequency in Hz.
func (e *ParametricEQ) SetHighFreq(hz float64) error { return e.SetBandFreq(BandHigh, hz) }

// SetHighQ sets the high band Q.
func (e *ParametricEQ) SetHighQ(q float64) error { return e.SetBandQ(BandHigh, q) }

// SetHighGain sets the high band gain in dB.
func (e *ParametricEQ) SetHighGain(dB float64) error { return e.SetBandGain(BandHigh, dB) }

// HPFFreq returns the highpass cutoff in Hz.
func (e *ParametricEQ) HPFFreq() float64 { return e.p.Load().hpfFreq }

// LPFFreq returns the lowpass cutoff in Hz.
func (e *ParametricEQ) LPFFreq() float64 { return e.p.Load().lpfFreq }

// OutputGain returns the output gain in dB.
func (e *ParametricEQ) OutputGain() float64 { return e.p.Load().outputGainDB }

// BandParams returns the controls of band b.
func (e *ParametricEQ) BandParams(b Band) BandParams {
	if b < 0 || b >= numBands {
		return BandParams{}
	}

	return e.p.Load().bands[b]
}

// Active reports which stages currently process audio, in cascade order:
// highpass, four bands, lowpass.
func (e *ParametricEQ) Active() [6]bool {
	p := e.p.Load()

	return [6]bool{p.hpfOn, p.peakOn[0], p.peakOn[1], p.peakOn[2], p.peakOn[3], p.lpfOn}
}

// Response returns the magnitude response of the whole cascade in dB at
// freqHz, bypassed stages included as 0 dB.
func (e *ParametricEQ) Response(freqHz float64) float64 {
	p := e.p.Load()

	db := p.outputGainDB
	if p.hpfOn {
		db += p.hpf.MagnitudeDB(freqHz, e.sampleRate)
	}

	for b := range numBands {
		if p.peakOn[b] {
			db += p.peaks[b].MagnitudeDB(freqHz, e.sampleRate)
		}
	}

	if p.lpfOn {
		db += p.lpf.MagnitudeDB(freqHz, e.sampleRate)
	}

	return db
}

// ProcessSample filters one sample.
func (e *ParametricEQ) ProcessSample(x float32) float32 {
	p := e.p.Load()
	return e.tick(p, x) * p.outputLin
}

// ProcessBlock filters src into dst; dst and src may alias. One coefficient
// snapshot is used for the whole block.
func (e *ParametricEQ) ProcessBlock(dst, src []float32) {
	n := min(len(dst), len(src))
	if n == 0 {
		return
	}

	p := e.p.Load()

	for i := range n {
		dst[i] = e.tick(p, src[i])
	}

	if p.outputLin != 1 {
		f32.Scale(dst[:n], dst[:n], p.outputLin)
	}
}

// Reset clears all filter histories.
func (e *ParametricEQ) Reset() {
	e.hpfHist.Reset()
	e.lpfHist.Reset()

	for b := range e.peakHist {
		e.peakHist[b].Reset()
	}
}

func (e *ParametricEQ) tick(p *eqParams, x float32) float32 {
	if p.hpfOn {
		x = e.hpfHist.ProcessFlush(&p.hpf, x)
	}

	x += fastmath.DCAdd

	for b := range numBands {
		if p.peakOn[b] {
			x = e.peakHist[b].Process(&p.peaks[b], x)
		}
	}

	if p.lpfOn {
		x = e.lpfHist.Process(&p.lpf, x)
	}

	return x
}

func (e *ParametricEQ) checkBand(b Band) error {
	if b < 0 || b >= numBands {
		return fmt.Errorf("eq: invalid band: %d", int(b))
	}

	return nil
}

func (e *ParametricEQ) updateBand(b Band, name string, v float64, set func(*BandParams)) error {
	if err := e.checkBand(b); err != nil {
		return err
	}

	if err := core.CheckFinite("eq "+b.String()+" "+name, v); err != nil {
		return err
	}

	return e.p.Update(func(p *eqParams) error {
		bp := p.bands[b]
		set(&bp)
		p.bands[b] = e.clampBand(bp)
		e.derivePeak(p, b)

		return nil
	})
}

func (e *ParametricEQ) clampBand(bp BandParams) BandParams {
	return BandParams{
		Freq:   core.Clamp(bp.Freq, 0, e.nyquist),
		Q:      core.Clamp(bp.Q, minQ, maxQ),
		GainDB: core.Clamp(bp.GainDB, minGainDB, maxGainDB),
	}
}

func (e *ParametricEQ) deriveHPF(p *eqParams) {
	p.hpfOn = p.hpfFreq > 0 && p.hpfFreq < e.nyquist
	p.hpf = design.HighpassSlope(p.hpfFreq, hpfSlope, e.sampleRate)
}

func (e *ParametricEQ) deriveLPF(p *eqParams) {
	p.lpfOn = p.lpfFreq > 0 && p.lpfFreq < e.nyquist
	p.lpf = design.LowpassSlope(p.lpfFreq, lpfSlope, e.sampleRate)
}

func (e *ParametricEQ) derivePeak(p *eqParams, b Band) {
	bp := p.bands[b]
	p.peakOn[b] = bp.Freq > 0 && bp.Freq < e.nyquist && bp.GainDB != 0
	p.peaks[b] = design.Peak(bp.Freq, bp.GainDB, bp.Q, e.sampleRate)
}

func (e *ParametricEQ) deriveOutput(p *eqParams) {
	p.outputLin = float32(core.DBToLinear(p.outputGainDB))
}
