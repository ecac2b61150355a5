package thd

import (
	"strconv"
	"testing"
)

func BenchmarkMeasure(b *testing.B) {
	for _, bins := range []int{513, 2049, 8193} {
		b.Run("bins_"+strconv.Itoa(bins), func(b *testing.B) {
			power := make([]float64, bins)
			fund := bins / 32
			power[fund] = 1

			for k := 2; k*fund < bins; k++ {
				amp := 0.01 / float64(k)
				power[k*fund] = amp * amp
			}

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = measure(power, 24000/float64(bins-1), 0)
			}
		})
	}
}

func BenchmarkAnalyze(b *testing.B) {
	signal := sine(750, 48000, 8192, 0.01)
	cfg := Config{SampleRate: 48000, FundamentalFreq: 750}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Analyze(signal, cfg)
	}
}
