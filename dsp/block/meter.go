package block

import (
	"math"

	"github.com/cwbudde/algo-fx/dsp/fastmath"
	"github.com/cwbudde/algo-fx/dsp/param"
	"github.com/tphakala/simd/f32"
)

// Meter is a pass-through Processor measuring per-block peak and RMS.
// Levels are readable from any goroutine.
type Meter struct {
	peak param.Float
	rms  param.Float
}

// NewMeter returns a Meter reading silence.
func NewMeter() *Meter {
	return &Meter{}
}

// ProcessBlock copies src to dst and measures it.
func (m *Meter) ProcessBlock(dst, src []float32) {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])
	m.Measure(src[:n])
}

// Measure updates the levels from x without copying.
func (m *Meter) Measure(x []float32) {
	if len(x) == 0 {
		return
	}

	var peak float32
	for _, v := range x {
		peak = max(peak, fastmath.Abs(v))
	}

	energy := f32.DotProductUnsafe(x, x)

	m.peak.Store(peak)
	m.rms.Store(float32(math.Sqrt(float64(energy) / float64(len(x)))))
}

// Peak returns the last block's absolute peak.
func (m *Meter) Peak() float32 { return m.peak.Load() }

// RMS returns the last block's RMS level.
func (m *Meter) RMS() float32 { return m.rms.Load() }

// PeakDB returns the last block's peak in dBFS, -Inf for silence.
func (m *Meter) PeakDB() float64 { return toDB(m.Peak()) }

// RMSDB returns the last block's RMS in dBFS, -Inf for silence.
func (m *Meter) RMSDB() float64 { return toDB(m.RMS()) }

// Reset sets both levels to zero.
func (m *Meter) Reset() {
	m.peak.Store(0)
	m.rms.Store(0)
}

func toDB(v float32) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(float64(v))
}
