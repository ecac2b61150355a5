package dynamics

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/fastmath"
)

func newOptical(t *testing.T) *OpticalCompressor {
	t.Helper()

	c, err := NewOpticalCompressor(testSampleRate)
	if err != nil {
		t.Fatalf("NewOpticalCompressor() error = %v", err)
	}

	return c
}

// opticalSteadyGR is the steady-state gain reduction for a constant input.
func opticalSteadyGR(amp, thresholdDB, bias float64) float64 {
	over := overDB(amp, thresholdDB, fastmath.LogToDB)
	ratio := 19 * math.Sqrt(over/(bias*0.8))

	return -over * ratio / (ratio + 1)
}

func TestNewOpticalCompressor(t *testing.T) {
	for _, sr := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if _, err := NewOpticalCompressor(sr); !errors.Is(err, core.ErrInvalidSampleRate) {
			t.Errorf("NewOpticalCompressor(%v) error = %v", sr, err)
		}
	}
}

func TestOpticalDefaults(t *testing.T) {
	c := newOptical(t)

	if c.Threshold() != -3 || c.Bias() != 70 || c.MakeupGain() != 0 {
		t.Errorf("defaults = %f/%f/%f", c.Threshold(), c.Bias(), c.MakeupGain())
	}

	if c.BlownCapacitor() {
		t.Error("blown capacitor should be off by default")
	}

	if c.TimeConstant() != 1 || c.RMSWindow() != 50 {
		t.Errorf("TimeConstant = %d, RMSWindow = %f", c.TimeConstant(), c.RMSWindow())
	}
}

func TestOpticalSetters(t *testing.T) {
	c := newOptical(t)

	_ = c.SetBias(0)
	if c.Bias() != minBias {
		t.Errorf("Bias = %f, want %f", c.Bias(), minBias)
	}

	_ = c.SetBias(500)
	if c.Bias() != maxBias {
		t.Errorf("Bias = %f, want %f", c.Bias(), maxBias)
	}

	_ = c.SetThreshold(-90)
	if c.Threshold() != -60 {
		t.Errorf("Threshold = %f, want -60", c.Threshold())
	}

	_ = c.SetMakeupGain(-3)
	if c.MakeupGain() != 0 {
		t.Errorf("MakeupGain = %f, want 0", c.MakeupGain())
	}

	for tc, want := range map[int]int{1: 1, 4: 4, 6: 6, 0: 1, 7: 1, -2: 1} {
		_ = c.SetTimeConstant(tc)
		if got := c.TimeConstant(); got != want {
			t.Errorf("SetTimeConstant(%d): TimeConstant = %d, want %d", tc, got, want)
		}
	}

	if err := c.SetBias(math.NaN()); !errors.Is(err, core.ErrNonFinite) {
		t.Errorf("SetBias(NaN) error = %v", err)
	}

	if err := c.SetRMSWindow(math.Inf(1)); !errors.Is(err, core.ErrNonFinite) {
		t.Errorf("SetRMSWindow(Inf) error = %v", err)
	}
}

func TestOpticalStepResponse(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		bias      float64
	}{
		{"defaults", -3, 70},
		{"low bias", -3, 10},
		{"deep threshold", -20, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newOptical(t)
			_ = c.SetThreshold(tt.threshold)
			_ = c.SetBias(tt.bias)

			gr := runStep(c, 1, int(testSampleRate))

			for i := 1; i < len(gr); i++ {
				if gr[i] > gr[i-1]+1e-6 {
					t.Fatalf("gain reduction shrank at sample %d: %f -> %f", i, gr[i-1], gr[i])
				}
			}

			want := opticalSteadyGR(1, tt.threshold, tt.bias)
			if got := gr[len(gr)-1]; math.Abs(got-want) > 0.05 {
				t.Errorf("steady gain reduction = %.4f dB, want %.4f", got, want)
			}
		})
	}
}

func TestOpticalRatioAtBias(t *testing.T) {
	// With the level equal to the scaled bias the effective ratio is 20:1.
	over := overDB(1, -20, fastmath.LogToDB)

	c := newOptical(t)
	_ = c.SetThreshold(-20)
	_ = c.SetBias(over / 0.8)

	runStep(c, 1, int(testSampleRate))

	slope := -c.GainReduction() / c.RunningLevel()
	if math.Abs(slope-19.0/20) > 0.005 {
		t.Errorf("gain reduction / level = %f, want 0.95", slope)
	}
}

func TestOpticalRelease(t *testing.T) {
	c := newOptical(t)

	runStep(c, 1, int(testSampleRate))
	gr := runStep(c, 0, 5*int(testSampleRate))

	for i := 1; i < len(gr); i++ {
		if gr[i] < gr[i-1]-1e-6 {
			t.Fatalf("gain reduction grew during release at sample %d", i)
		}
	}

	if got := gr[len(gr)-1]; got < -0.01 {
		t.Errorf("gain reduction after release = %f dB", got)
	}
}

func TestOpticalBlownCapacitor(t *testing.T) {
	clean := newOptical(t)
	blown := newOptical(t)
	_ = blown.SetBlownCapacitor(true)

	runStep(clean, 1, 9600)
	runStep(blown, 1, 9600)

	ratio := blown.RunningLevel() / clean.RunningLevel()
	if math.Abs(ratio-BlownCapScalar) > 0.02 {
		t.Errorf("blown/clean level ratio = %f, want %f", ratio, BlownCapScalar)
	}

	if blown.GainReduction() >= clean.GainReduction() {
		t.Errorf("blown capacitor reduced less: %f vs %f", blown.GainReduction(), clean.GainReduction())
	}
}

func TestOpticalZeroInput(t *testing.T) {
	c := newOptical(t)

	buf := make([]float32, 128)
	for range 50 {
		c.ProcessBlock(buf, buf)
	}

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}

	if c.GainReduction() != 0 {
		t.Errorf("GainReduction = %f, want 0", c.GainReduction())
	}
}

func TestOpticalRecoversFromSpike(t *testing.T) {
	for _, blown := range []bool{false, true} {
		c := newOptical(t)
		_ = c.SetBlownCapacitor(blown)
		_ = c.SetBias(0.1)
		_ = c.SetMakeupGain(24)

		runSpike(t, c.ProcessBlock)

		if gr := c.GainReduction(); math.IsNaN(gr) || gr > 0 {
			t.Errorf("blown=%v: GainReduction = %f after silence", blown, gr)
		}
	}
}

func TestOpticalMakeup(t *testing.T) {
	c := newOptical(t)
	_ = c.SetMakeupGain(6)

	// Far below threshold the only gain is makeup.
	y := c.ProcessSample(0.001)
	want := 0.001 * core.DBToLinear(6)

	if math.Abs(float64(y)-want) > 1e-7 {
		t.Errorf("ProcessSample = %v, want %v", y, want)
	}
}
