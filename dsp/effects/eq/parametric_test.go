package eq

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/internal/testutil"
)

const testSampleRate = 48000.0

func newFlat(t *testing.T) *ParametricEQ {
	t.Helper()

	e, err := New(testSampleRate)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := e.SetHPFFreq(0); err != nil {
		t.Fatal(err)
	}

	if err := e.SetLPFFreq(testSampleRate); err != nil {
		t.Fatal(err)
	}

	for b := BandLow; b < numBands; b++ {
		if err := e.SetBandGain(b, 0); err != nil {
			t.Fatal(err)
		}
	}

	return e
}

func sine(freq float64, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/testSampleRate))
	}

	return out
}

// amplitude estimates a sine's amplitude from its RMS; x must span whole periods.
func amplitude(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}

	return math.Sqrt(2 * sum / float64(len(x)))
}

func TestNewRejectsBadSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := New(sr); !errors.Is(err, core.ErrInvalidSampleRate) {
			t.Errorf("New(%v) err = %v, want ErrInvalidSampleRate", sr, err)
		}
	}
}

func TestDefaults(t *testing.T) {
	e, err := New(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	if got := e.HPFFreq(); got != 30 {
		t.Errorf("HPFFreq = %v, want 30", got)
	}

	if got := e.LPFFreq(); got != 8000 {
		t.Errorf("LPFFreq = %v, want 8000", got)
	}

	if got := e.OutputGain(); got != 0 {
		t.Errorf("OutputGain = %v, want 0", got)
	}

	want := map[Band]BandParams{
		BandLow:     {315, 1, 1},
		BandLowMid:  {800, 2, 3},
		BandHighMid: {2500, 1, 1},
		BandHigh:    {9000, 0.5, -3},
	}
	for b, w := range want {
		if got := e.BandParams(b); got != w {
			t.Errorf("%s = %+v, want %+v", b, got, w)
		}
	}

	if got := e.Active(); got != [6]bool{true, true, true, true, true, true} {
		t.Errorf("Active = %v, want all stages on", got)
	}
}

func TestFlatIsTransparent(t *testing.T) {
	e := newFlat(t)

	if got := e.Active(); got != [6]bool{} {
		t.Fatalf("Active = %v, want all bypassed", got)
	}

	src := sine(1000, 512)
	dst := make([]float32, len(src))
	e.ProcessBlock(dst, src)

	for i := range src {
		if math.Abs(float64(dst[i]-src[i])) > 1e-7 {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], src[i])
		}
	}
}

func TestZeroInputStaysFinite(t *testing.T) {
	e, err := New(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]float32, 128)
	for range 100 {
		e.ProcessBlock(buf, buf)
	}

	for i, v := range buf {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("buf[%d] = %v", i, v)
		}

		if math.Abs(float64(v)) > 1e-20 {
			t.Fatalf("buf[%d] = %v, want only DC bias residue", i, v)
		}
	}
}

func TestSpikeStaysFinite(t *testing.T) {
	e, err := New(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	for b := BandLow; b < numBands; b++ {
		if err := e.SetBandGain(b, 24); err != nil {
			t.Fatal(err)
		}
	}

	if err := e.SetOutputGain(24); err != nil {
		t.Fatal(err)
	}

	buf := sine(1000, 128)
	for i := range buf {
		buf[i] *= 40
	}

	e.ProcessBlock(buf, buf)
	testutil.RequireFinite(t, buf)

	clear(buf)

	for range 100 {
		e.ProcessBlock(buf, buf)
		testutil.RequireFinite(t, buf)
	}
}

func TestBandGainAtCenter(t *testing.T) {
	tests := []struct {
		name   string
		band   Band
		freq   float64
		gainDB float64
	}{
		{"low-mid boost", BandLowMid, 800, 3},
		{"high-mid cut", BandHighMid, 2500, -6},
		{"high boost", BandHigh, 9000, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newFlat(t)
			if err := e.SetBand(tt.band, BandParams{Freq: tt.freq, Q: 1, GainDB: tt.gainDB}); err != nil {
				t.Fatal(err)
			}

			if got := e.Response(tt.freq); math.Abs(got-tt.gainDB) > 0.01 {
				t.Errorf("Response(%v) = %.3f dB, want %.3f", tt.freq, got, tt.gainDB)
			}

			src := sine(tt.freq, int(testSampleRate))
			dst := make([]float32, len(src))
			e.ProcessBlock(dst, src)

			gotDB := 20 * math.Log10(amplitude(dst[len(dst)-4800:])/0.5)
			if math.Abs(gotDB-tt.gainDB) > 0.05 {
				t.Errorf("measured gain = %.3f dB, want %.3f", gotDB, tt.gainDB)
			}
		})
	}
}

func TestOutputGain(t *testing.T) {
	e := newFlat(t)
	if err := e.SetOutputGain(-6); err != nil {
		t.Fatal(err)
	}

	src := []float32{1, -1, 0.5}
	dst := make([]float32, len(src))
	e.ProcessBlock(dst, src)

	g := float32(core.DBToLinear(-6))
	for i := range src {
		if math.Abs(float64(dst[i]-src[i]*g)) > 1e-6 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], src[i]*g)
		}
	}

	if got := e.Response(1000); math.Abs(got+6) > 1e-9 {
		t.Errorf("Response = %v, want -6", got)
	}
}

func TestSetterClamps(t *testing.T) {
	e, err := New(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	_ = e.SetBandQ(BandLow, 100)
	_ = e.SetBandGain(BandLow, -60)
	_ = e.SetBandFreq(BandLow, 1e6)
	_ = e.SetOutputGain(99)
	_ = e.SetHPFFreq(-5)

	bp := e.BandParams(BandLow)
	if bp.Q != maxQ || bp.GainDB != minGainDB || bp.Freq != testSampleRate/2 {
		t.Errorf("BandParams = %+v, want clamped", bp)
	}

	if got := e.OutputGain(); got != maxGainDB {
		t.Errorf("OutputGain = %v, want %v", got, maxGainDB)
	}

	if got := e.HPFFreq(); got != 0 {
		t.Errorf("HPFFreq = %v, want 0", got)
	}

	active := e.Active()
	if active[0] || active[1] {
		t.Errorf("Active = %v, want hpf and low bypassed", active)
	}
}

func TestNonFiniteRejected(t *testing.T) {
	e, err := New(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	before := e.BandParams(BandHigh)

	setters := map[string]func() error{
		"freq":   func() error { return e.SetHighFreq(math.NaN()) },
		"q":      func() error { return e.SetHighQ(math.Inf(1)) },
		"gain":   func() error { return e.SetHighGain(math.Inf(-1)) },
		"band":   func() error { return e.SetBand(BandHigh, BandParams{Freq: math.NaN(), Q: 1}) },
		"hpf":    func() error { return e.SetHPFFreq(math.NaN()) },
		"lpf":    func() error { return e.SetLPFFreq(math.NaN()) },
		"output": func() error { return e.SetOutputGain(math.NaN()) },
	}
	for name, set := range setters {
		if err := set(); !errors.Is(err, core.ErrNonFinite) {
			t.Errorf("%s: err = %v, want ErrNonFinite", name, err)
		}
	}

	if got := e.BandParams(BandHigh); got != before {
		t.Errorf("BandParams changed to %+v", got)
	}

	if got := e.HPFFreq(); got != defaultHPFFreq {
		t.Errorf("HPFFreq changed to %v", got)
	}
}

func TestSetBandNamesFirstBadField(t *testing.T) {
	e, err := New(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		bp   BandParams
		want string
	}{
		{"freq first", BandParams{Freq: math.NaN(), Q: math.NaN(), GainDB: math.NaN()}, "eq low-mid freq"},
		{"q before gain", BandParams{Freq: 800, Q: math.Inf(1), GainDB: math.NaN()}, "eq low-mid q"},
		{"gain", BandParams{Freq: 800, Q: 2, GainDB: math.Inf(-1)}, "eq low-mid gain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				err := e.SetBand(BandLowMid, tt.bp)
				if !errors.Is(err, core.ErrNonFinite) || !strings.HasPrefix(err.Error(), tt.want+":") {
					t.Fatalf("SetBand error = %v, want prefix %q", err, tt.want)
				}
			}
		})
	}
}

func TestInvalidBand(t *testing.T) {
	e, err := New(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.SetBandGain(Band(7), 3); err == nil {
		t.Error("SetBandGain(7) succeeded")
	}

	if got := e.BandParams(Band(-1)); got != (BandParams{}) {
		t.Errorf("BandParams(-1) = %+v", got)
	}
}

func TestSampleMatchesBlock(t *testing.T) {
	a, _ := New(testSampleRate)
	b, _ := New(testSampleRate)

	for _, e := range []*ParametricEQ{a, b} {
		if err := e.SetOutputGain(2.5); err != nil {
			t.Fatal(err)
		}
	}

	src := sine(440, 1024)
	block := make([]float32, len(src))
	b.ProcessBlock(block, src)

	for i, x := range src {
		if got := a.ProcessSample(x); got != block[i] {
			t.Fatalf("sample %d: %v != %v", i, got, block[i])
		}
	}
}

func TestReset(t *testing.T) {
	e, _ := New(testSampleRate)

	src := sine(200, 256)
	first := make([]float32, len(src))
	e.ProcessBlock(first, src)

	e.Reset()

	second := make([]float32, len(src))
	e.ProcessBlock(second, src)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after Reset: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestConcurrentUpdates(t *testing.T) {
	e, _ := New(testSampleRate)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := range 500 {
			_ = e.SetLowMidGain(float64(i%24) - 12)
			_ = e.SetLowMidFreq(400 + float64(i))
		}
	}()

	buf := sine(800, 128)
	for range 500 {
		e.ProcessBlock(buf, buf)
	}

	wg.Wait()

	for i, v := range buf {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("buf[%d] = %v", i, v)
		}
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	e, _ := New(testSampleRate)
	buf := sine(1000, 128)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e.ProcessBlock(buf, buf)
	}
}
