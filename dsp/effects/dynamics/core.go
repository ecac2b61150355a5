package dynamics

import (
	"math"

	"github.com/cwbudde/algo-fx/dsp/fastmath"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	// BlownCapScalar multiplies the detector's dB scale in blown-capacitor
	// mode, so the same input reads as that much further over threshold.
	BlownCapScalar = 2.08

	minThresholdDB   = -60.0
	maxThresholdDB   = 0.0
	minMakeupDB      = 0.0
	maxMakeupDB      = 24.0
	minRMSWindowUs   = 1.0
	maxRMSWindowUs   = 100000.0
	defaultRMSWindow = 50.0
)

// Metrics holds metering information collected since the last ResetMetrics.
type Metrics struct {
	InputPeak     float64 // maximum absolute input sample
	OutputPeak    float64 // maximum absolute output sample
	GainReduction float64 // deepest gain reduction in dB (<= 0)
}

// timeCoef returns the one-pole smoothing coefficient for a time constant
// of seconds at sampleRate.
func timeCoef(seconds, sampleRate float64) float32 {
	if seconds <= 0 {
		return 0
	}

	return float32(math.Exp(-1 / (seconds * sampleRate)))
}

// capScale returns the ln-to-dB factor of the detector.
func capScale(blown bool) float32 {
	if blown {
		return fastmath.LogToDB * BlownCapScalar
	}

	return fastmath.LogToDB
}

// thresholdRecip returns 1/threshold as a linear amplitude factor.
func thresholdRecip(dB float64) float32 {
	return float32(math.Exp(-dB * fastmath.DBToLog))
}

// detector is the mean-square follower plus the smoothed over-threshold
// level. It is owned by the processing goroutine.
type detector struct {
	meanSquare   float32
	runningLevel float32
}

// overLevel updates the mean square with x and returns how far the RMS
// level sits above threshold, in dB, never negative.
func (d *detector) overLevel(x, rmsCoef, scale, threshRecip float32) float32 {
	sq := x * x
	d.meanSquare = sq + rmsCoef*(d.meanSquare-sq)

	over := scale * fastmath.Log(fastmath.Sqrt(max(0, d.meanSquare))*threshRecip)

	return max(0, over)
}

func (d *detector) reset() {
	d.meanSquare = 0
	d.runningLevel = 0
}

// meters publishes per-block measurements to control goroutines.
type meters struct {
	gainReduction param.Float
	runningLevel  param.Float
	inputPeak     param.Float
	outputPeak    param.Float
	deepestGR     param.Float
}

func (m *meters) publish(gr, level, inPeak, outPeak float32) {
	m.gainReduction.Store(gr)
	m.runningLevel.Store(level)

	if inPeak > m.inputPeak.Load() {
		m.inputPeak.Store(inPeak)
	}

	if outPeak > m.outputPeak.Load() {
		m.outputPeak.Store(outPeak)
	}

	if gr < m.deepestGR.Load() {
		m.deepestGR.Store(gr)
	}
}

func (m *meters) metrics() Metrics {
	return Metrics{
		InputPeak:     float64(m.inputPeak.Load()),
		OutputPeak:    float64(m.outputPeak.Load()),
		GainReduction: float64(m.deepestGR.Load()),
	}
}

func (m *meters) resetPeaks() {
	m.inputPeak.Store(0)
	m.outputPeak.Store(0)
	m.deepestGR.Store(0)
}

func (m *meters) reset() {
	m.gainReduction.Store(0)
	m.runningLevel.Store(0)
	m.resetPeaks()
}
