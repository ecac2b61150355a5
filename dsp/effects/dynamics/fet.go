package dynamics

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/fastmath"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	defaultFETThresholdDB = -6.0
	defaultFETAttackUs    = 20.0
	defaultFETReleaseMs   = 50.0
	defaultFETMixPct      = 100.0

	minFETAttackUs  = 20.0
	maxFETAttackUs  = 800.0
	minFETReleaseMs = 50.0
	maxFETReleaseMs = 1100.0

	softKneeOffsetDB = 3.0

	// All-buttons mode: ratio = allInBaseRatio + running ratio, where the
	// running ratio jumps toward allInJumpRatio on transients above
	// allInJumpDB.
	allInBaseRatio  = 12.0
	allInJumpRatio  = 4.0
	allInJumpDB     = 5.0
	ratioAttackSec  = 0.00001
	ratioReleaseSec = 0.5
)

// RatioMode selects the FET compressor's ratio and detector flavor.
type RatioMode int

const (
	// BlownCap4 is 4:1 with the blown-capacitor detector.
	BlownCap4 RatioMode = iota
	// BlownCap8 is 8:1 with the blown-capacitor detector.
	BlownCap8
	// BlownCap12 is 12:1 with the blown-capacitor detector.
	BlownCap12
	// BlownCap20 is 20:1 with the blown-capacitor detector.
	BlownCap20
	// BlownCapAll is all-buttons mode with the blown-capacitor detector.
	BlownCapAll
	// Clean4 is 4:1.
	Clean4
	// Clean8 is 8:1.
	Clean8
	// Clean12 is 12:1.
	Clean12
	// Clean20 is 20:1.
	Clean20
	// CleanAll is all-buttons mode.
	CleanAll
)

var ratioModeNames = [...]string{
	"blown-4", "blown-8", "blown-12", "blown-20", "blown-all",
	"clean-4", "clean-8", "clean-12", "clean-20", "clean-all",
}

var fixedRatios = [...]float32{4, 8, 12, 20, 20}

func (m RatioMode) String() string {
	if m < BlownCap4 || m > CleanAll {
		return fmt.Sprintf("RatioMode(%d)", int(m))
	}

	return ratioModeNames[m]
}

// BlownCap reports whether m uses the blown-capacitor detector.
func (m RatioMode) BlownCap() bool { return m <= BlownCapAll }

// AllButtons reports whether m is an all-buttons mode.
func (m RatioMode) AllButtons() bool { return m == BlownCapAll || m == CleanAll }

// ParseRatioMode returns the RatioMode named s, as printed by String.
func ParseRatioMode(s string) (RatioMode, error) {
	for i, name := range ratioModeNames {
		if name == s {
			return RatioMode(i), nil
		}
	}

	return 0, fmt.Errorf("dynamics: unknown ratio mode %q", s)
}

type fetParams struct {
	thresholdDB float64
	mode        RatioMode
	softKnee    bool
	makeupDB    float64
	attackUs    float64
	releaseMs   float64
	mixPct      float64
	rmsWindowUs float64

	threshRecip float32
	scale       float32
	ratio       float32
	allIn       bool
	attackCoef  float32
	releaseCoef float32
	rmsCoef     float32
	ratAtCoef   float32
	ratRelCoef  float32
	makeupWet   float32
	dry         float32
}

// FETCompressor models a fast FET-style compressor.
//
// The detector follows the RMS level, converts it to dB over threshold and
// smooths that with separate attack and release coefficients. Gain reduction
// is -level·(ratio-1)/ratio. Output is x·gain·makeup·mix + x·(1-mix).
type FETCompressor struct {
	sampleRate float64

	p *param.Published[fetParams]

	det          detector
	runningRatio float32
	targetRatio  float32

	meters
}

// NewFETCompressor creates a FET compressor with defaults:
//   - Threshold: -6 dB
//   - Ratio mode: CleanAll
//   - Makeup: 0 dB
//   - Attack: 20 µs
//   - Release: 50 ms
//   - Mix: 100 %
//   - RMS window: 50 µs
func NewFETCompressor(sampleRate float64) (*FETCompressor, error) {
	if err := core.ValidateSampleRate("fet compressor", sampleRate); err != nil {
		return nil, err
	}

	c := &FETCompressor{sampleRate: sampleRate}

	initial := fetParams{
		thresholdDB: defaultFETThresholdDB,
		mode:        CleanAll,
		attackUs:    defaultFETAttackUs,
		releaseMs:   defaultFETReleaseMs,
		mixPct:      defaultFETMixPct,
		rmsWindowUs: defaultRMSWindow,
		ratAtCoef:   timeCoef(ratioAttackSec, sampleRate),
		ratRelCoef:  timeCoef(ratioReleaseSec, sampleRate),
	}
	c.deriveThreshold(&initial)
	c.deriveMode(&initial)
	c.deriveTimes(&initial)
	c.deriveOutput(&initial)

	c.p = param.NewPublished(initial)

	return c, nil
}

// SampleRate returns the sample rate in Hz.
func (c *FETCompressor) SampleRate() float64 { return c.sampleRate }

// Threshold returns the threshold in dB.
func (c *FETCompressor) Threshold() float64 { return c.p.Load().thresholdDB }

// RatioMode returns the current ratio mode.
func (c *FETCompressor) RatioMode() RatioMode { return c.p.Load().mode }

// SoftKnee reports whether the soft knee is enabled.
func (c *FETCompressor) SoftKnee() bool { return c.p.Load().softKnee }

// MakeupGain returns the makeup gain in dB.
func (c *FETCompressor) MakeupGain() float64 { return c.p.Load().makeupDB }

// Attack returns the attack time in microseconds.
func (c *FETCompressor) Attack() float64 { return c.p.Load().attackUs }

// Release returns the release time in milliseconds.
func (c *FETCompressor) Release() float64 { return c.p.Load().releaseMs }

// Mix returns the wet amount in percent.
func (c *FETCompressor) Mix() float64 { return c.p.Load().mixPct }

// RMSWindow returns the detector time constant in microseconds.
func (c *FETCompressor) RMSWindow() float64 { return c.p.Load().rmsWindowUs }

// SetThreshold sets the threshold in dB, clamped to [-60, 0].
func (c *FETCompressor) SetThreshold(dB float64) error {
	return c.update("fet threshold", dB, func(p *fetParams) {
		p.thresholdDB = core.Clamp(dB, minThresholdDB, maxThresholdDB)
		c.deriveThreshold(p)
	})
}

// SetRatioMode selects the ratio and detector flavor.
func (c *FETCompressor) SetRatioMode(m RatioMode) error {
	if m < BlownCap4 || m > CleanAll {
		return fmt.Errorf("fet compressor: invalid ratio mode: %d", int(m))
	}

	return c.p.Update(func(p *fetParams) error {
		p.mode = m
		c.deriveMode(p)

		return nil
	})
}

// SetSoftKnee lowers the effective threshold by 3 dB when enabled.
func (c *FETCompressor) SetSoftKnee(on bool) error {
	return c.p.Update(func(p *fetParams) error {
		p.softKnee = on
		c.deriveThreshold(p)

		return nil
	})
}

// SetMakeupGain sets the makeup gain in dB, clamped to [0, 24].
func (c *FETCompressor) SetMakeupGain(dB float64) error {
	return c.update("fet makeup gain", dB, func(p *fetParams) {
		p.makeupDB = core.Clamp(dB, minMakeupDB, maxMakeupDB)
		c.deriveOutput(p)
	})
}

// SetAttack sets the attack time in microseconds, clamped to [20, 800].
func (c *FETCompressor) SetAttack(us float64) error {
	return c.update("fet attack", us, func(p *fetParams) {
		p.attackUs = core.Clamp(us, minFETAttackUs, maxFETAttackUs)
		c.deriveTimes(p)
	})
}

// SetRelease sets the release time in milliseconds, clamped to [50, 1100].
func (c *FETCompressor) SetRelease(ms float64) error {
	return c.update("fet release", ms, func(p *fetParams) {
		p.releaseMs = core.Clamp(ms, minFETReleaseMs, maxFETReleaseMs)
		c.deriveTimes(p)
	})
}

// SetMix sets the wet amount in percent, clamped to [0, 100].
func (c *FETCompressor) SetMix(pct float64) error {
	return c.update("fet mix", pct, func(p *fetParams) {
		p.mixPct = core.Clamp(pct, 0, 100)
		c.deriveOutput(p)
	})
}

// SetRMSWindow sets the detector time constant in microseconds, clamped to
// [1, 100000].
func (c *FETCompressor) SetRMSWindow(us float64) error {
	return c.update("fet rms window", us, func(p *fetParams) {
		p.rmsWindowUs = core.Clamp(us, minRMSWindowUs, maxRMSWindowUs)
		c.deriveTimes(p)
	})
}

// GainReduction returns the gain change applied to the most recent sample,
// in dB (<= 0). Safe to call from any goroutine.
func (c *FETCompressor) GainReduction() float64 {
	return float64(c.gainReduction.Load())
}

// RunningLevel returns the smoothed over-threshold level in dB.
func (c *FETCompressor) RunningLevel() float64 {
	return float64(c.runningLevel.Load())
}

// Metrics returns peak meters collected since the last ResetMetrics.
func (c *FETCompressor) Metrics() Metrics { return c.metrics() }

// ResetMetrics clears the peak meters.
func (c *FETCompressor) ResetMetrics() { c.resetPeaks() }

// Reset clears detector state and meters. Call it from the processing
// goroutine.
func (c *FETCompressor) Reset() {
	c.det.reset()
	c.runningRatio = 0
	c.targetRatio = 0
	c.meters.reset()
}

// ProcessSample compresses one sample.
func (c *FETCompressor) ProcessSample(x float32) float32 {
	p := c.p.Load()
	y, gr := c.tick(p, x)
	c.publish(gr, c.det.runningLevel, fastmath.Abs(x), fastmath.Abs(y))

	return y
}

// ProcessBlock compresses src into dst; dst and src may alias.
func (c *FETCompressor) ProcessBlock(dst, src []float32) {
	n := min(len(dst), len(src))
	if n == 0 {
		return
	}

	p := c.p.Load()

	var gr, inPeak, outPeak float32

	for i := range n {
		x := src[i]
		var y float32

		y, gr = c.tick(p, x)
		dst[i] = y

		inPeak = max(inPeak, fastmath.Abs(x))
		outPeak = max(outPeak, fastmath.Abs(y))
	}

	c.publish(gr, c.det.runningLevel, inPeak, outPeak)
}

func (c *FETCompressor) tick(p *fetParams, x float32) (float32, float32) {
	over := c.det.overLevel(x, p.rmsCoef, p.scale, p.threshRecip)

	levelDelta := c.det.runningLevel - over
	if levelDelta < -allInJumpDB {
		c.targetRatio = allInJumpRatio
	}

	ratioDelta := c.runningRatio - c.targetRatio

	if levelDelta < 0 {
		c.det.runningLevel = over + p.attackCoef*levelDelta
		c.runningRatio = c.targetRatio + p.ratAtCoef*ratioDelta
	} else {
		c.det.runningLevel = over + p.releaseCoef*levelDelta
		c.runningRatio = c.targetRatio + p.ratRelCoef*ratioDelta
	}

	c.targetRatio = c.runningRatio

	ratio := p.ratio
	if p.allIn {
		ratio = allInBaseRatio + c.targetRatio
	}

	gr := -c.det.runningLevel * (ratio - 1) / ratio
	g := fastmath.Exp(gr * fastmath.DBToLog)

	return x*g*p.makeupWet + x*p.dry, gr
}

func (c *FETCompressor) update(name string, v float64, fn func(*fetParams)) error {
	if err := core.CheckFinite(name, v); err != nil {
		return err
	}

	return c.p.Update(func(p *fetParams) error {
		fn(p)
		return nil
	})
}

func (c *FETCompressor) deriveThreshold(p *fetParams) {
	th := p.thresholdDB
	if p.softKnee {
		th -= softKneeOffsetDB
	}

	p.threshRecip = thresholdRecip(th)
}

func (c *FETCompressor) deriveMode(p *fetParams) {
	p.scale = capScale(p.mode.BlownCap())

	pos := p.mode
	if !p.mode.BlownCap() {
		pos -= Clean4
	}

	p.ratio = fixedRatios[pos]
	p.allIn = p.mode.AllButtons()
}

func (c *FETCompressor) deriveTimes(p *fetParams) {
	p.attackCoef = timeCoef(p.attackUs*1e-6, c.sampleRate)
	p.releaseCoef = timeCoef(p.releaseMs*1e-3, c.sampleRate)
	p.rmsCoef = timeCoef(p.rmsWindowUs*1e-6, c.sampleRate)
}

func (c *FETCompressor) deriveOutput(p *fetParams) {
	mix := float32(p.mixPct / 100)
	p.makeupWet = float32(core.DBToLinear(p.makeupDB)) * mix
	p.dry = 1 - mix
}
