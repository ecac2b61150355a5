package dynamics

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/fastmath"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	defaultOpticalThresholdDB = -3.0
	defaultOpticalBias        = 70.0
	defaultTimeConstant       = 1

	minBias       = 0.1
	maxBias       = 100.0
	biasScale     = 0.8
	opticalRatio  = 19.0
	numTimeConsts = 6
)

// timeConstants are the attack/release pairs in seconds selected by
// SetTimeConstant(1..6).
var timeConstants = [numTimeConsts][2]float64{
	{0.0002, 0.3},
	{0.0002, 0.8},
	{0.0004, 2},
	{0.0008, 5},
	{0.0002, 10},
	{0.0004, 25},
}

type opticalParams struct {
	thresholdDB  float64
	biasPct      float64
	makeupDB     float64
	blownCap     bool
	timeConstant int
	rmsWindowUs  float64

	threshRecip float32
	scale       float32
	biasRecip   float32
	attackCoef  float32
	releaseCoef float32
	rmsCoef     float32
	makeup      float32
}

// OpticalCompressor models an opto-cell compressor. Its ratio is not fixed:
// it grows with the square root of the smoothed over-threshold level and
// reaches 20:1 where that level equals 0.8·bias.
type OpticalCompressor struct {
	sampleRate float64

	p *param.Published[opticalParams]

	det detector

	meters
}

// NewOpticalCompressor creates an optical compressor with defaults:
//   - Threshold: -3 dB
//   - Bias: 70 %
//   - Makeup: 0 dB
//   - Capacitor: clean
//   - Time constant: 1 (0.2 ms / 300 ms)
//   - RMS window: 50 µs
func NewOpticalCompressor(sampleRate float64) (*OpticalCompressor, error) {
	if err := core.ValidateSampleRate("optical compressor", sampleRate); err != nil {
		return nil, err
	}

	c := &OpticalCompressor{sampleRate: sampleRate}

	initial := opticalParams{
		thresholdDB:  defaultOpticalThresholdDB,
		biasPct:      defaultOpticalBias,
		timeConstant: defaultTimeConstant,
		rmsWindowUs:  defaultRMSWindow,
	}
	c.deriveThreshold(&initial)
	c.deriveBias(&initial)
	c.deriveTimes(&initial)
	initial.makeup = 1

	c.p = param.NewPublished(initial)

	return c, nil
}

// SampleRate returns the sample rate in Hz.
func (c *OpticalCompressor) SampleRate() float64 { return c.sampleRate }

// Threshold returns the threshold in dB.
func (c *OpticalCompressor) Threshold() float64 { return c.p.Load().thresholdDB }

// Bias returns the bias in percent.
func (c *OpticalCompressor) Bias() float64 { return c.p.Load().biasPct }

// MakeupGain returns the makeup gain in dB.
func (c *OpticalCompressor) MakeupGain() float64 { return c.p.Load().makeupDB }

// BlownCapacitor reports whether the blown-capacitor detector is active.
func (c *OpticalCompressor) BlownCapacitor() bool { return c.p.Load().blownCap }

// TimeConstant returns the selected time-constant preset (1..6).
func (c *OpticalCompressor) TimeConstant() int { return c.p.Load().timeConstant }

// RMSWindow returns the detector time constant in microseconds.
func (c *OpticalCompressor) RMSWindow() float64 { return c.p.Load().rmsWindowUs }

// SetThreshold sets the threshold in dB, clamped to [-60, 0].
func (c *OpticalCompressor) SetThreshold(dB float64) error {
	return c.update("optical threshold", dB, func(p *opticalParams) {
		p.thresholdDB = core.Clamp(dB, minThresholdDB, maxThresholdDB)
		c.deriveThreshold(p)
	})
}

// SetBias sets the bias in percent, clamped to [0.1, 100]. Lower bias
// reaches high ratios at smaller over-threshold levels.
func (c *OpticalCompressor) SetBias(pct float64) error {
	return c.update("optical bias", pct, func(p *opticalParams) {
		p.biasPct = core.Clamp(pct, minBias, maxBias)
		c.deriveBias(p)
	})
}

// SetMakeupGain sets the makeup gain in dB, clamped to [0, 24].
func (c *OpticalCompressor) SetMakeupGain(dB float64) error {
	return c.update("optical makeup gain", dB, func(p *opticalParams) {
		p.makeupDB = core.Clamp(dB, minMakeupDB, maxMakeupDB)
		p.makeup = float32(core.DBToLinear(p.makeupDB))
	})
}

// SetBlownCapacitor switches to the blown-capacitor detector, which reads
// the input as BlownCapScalar times further over threshold.
func (c *OpticalCompressor) SetBlownCapacitor(on bool) error {
	return c.p.Update(func(p *opticalParams) error {
		p.blownCap = on
		c.deriveThreshold(p)

		return nil
	})
}

// SetTimeConstant selects one of six attack/release presets:
//
//	1: 0.2 ms / 300 ms   2: 0.2 ms / 800 ms   3: 0.4 ms / 2 s
//	4: 0.8 ms / 5 s      5: 0.2 ms / 10 s     6: 0.4 ms / 25 s
//
// Values outside 1..6 select preset 1.
func (c *OpticalCompressor) SetTimeConstant(tc int) error {
	if tc < 1 || tc > numTimeConsts {
		tc = defaultTimeConstant
	}

	return c.p.Update(func(p *opticalParams) error {
		p.timeConstant = tc
		c.deriveTimes(p)

		return nil
	})
}

// SetRMSWindow sets the detector time constant in microseconds, clamped to
// [1, 100000].
func (c *OpticalCompressor) SetRMSWindow(us float64) error {
	return c.update("optical rms window", us, func(p *opticalParams) {
		p.rmsWindowUs = core.Clamp(us, minRMSWindowUs, maxRMSWindowUs)
		c.deriveTimes(p)
	})
}

// GainReduction returns the gain change applied to the most recent sample,
// in dB (<= 0). Safe to call from any goroutine.
func (c *OpticalCompressor) GainReduction() float64 {
	return float64(c.gainReduction.Load())
}

// RunningLevel returns the smoothed over-threshold level in dB.
func (c *OpticalCompressor) RunningLevel() float64 {
	return float64(c.runningLevel.Load())
}

// Metrics returns peak meters collected since the last ResetMetrics.
func (c *OpticalCompressor) Metrics() Metrics { return c.metrics() }

// ResetMetrics clears the peak meters.
func (c *OpticalCompressor) ResetMetrics() { c.resetPeaks() }

// Reset clears detector state and meters. Call it from the processing
// goroutine.
func (c *OpticalCompressor) Reset() {
	c.det.reset()
	c.meters.reset()
}

// ProcessSample compresses one sample.
func (c *OpticalCompressor) ProcessSample(x float32) float32 {
	p := c.p.Load()
	y, gr := c.tick(p, x)
	c.publish(gr, c.det.runningLevel, fastmath.Abs(x), fastmath.Abs(y))

	return y
}

// ProcessBlock compresses src into dst; dst and src may alias.
func (c *OpticalCompressor) ProcessBlock(dst, src []float32) {
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

func (c *OpticalCompressor) tick(p *opticalParams, x float32) (float32, float32) {
	over := c.det.overLevel(x, p.rmsCoef, p.scale, p.threshRecip)

	delta := c.det.runningLevel - over

	coef := p.releaseCoef
	if delta < 0 {
		coef = p.attackCoef
	}

	c.det.runningLevel = over + coef*delta

	level := max(c.det.runningLevel, 0)
	ratio := opticalRatio * fastmath.Sqrt(level*p.biasRecip)
	gr := -level * ratio / (ratio + 1)

	return x * fastmath.Exp(gr*fastmath.DBToLog) * p.makeup, gr
}

func (c *OpticalCompressor) update(name string, v float64, fn func(*opticalParams)) error {
	if err := core.CheckFinite(name, v); err != nil {
		return err
	}

	return c.p.Update(func(p *opticalParams) error {
		fn(p)
		return nil
	})
}

func (c *OpticalCompressor) deriveThreshold(p *opticalParams) {
	p.threshRecip = thresholdRecip(p.thresholdDB)
	p.scale = capScale(p.blownCap)
}

func (c *OpticalCompressor) deriveBias(p *opticalParams) {
	p.biasRecip = float32(1 / (max(p.biasPct, minBias) * biasScale))
}

func (c *OpticalCompressor) deriveTimes(p *opticalParams) {
	tc := timeConstants[p.timeConstant-1]
	p.attackCoef = timeCoef(tc[0], c.sampleRate)
	p.releaseCoef = timeCoef(tc[1], c.sampleRate)
	p.rmsCoef = timeCoef(p.rmsWindowUs*1e-6, c.sampleRate)
}
