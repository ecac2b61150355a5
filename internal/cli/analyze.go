package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-fx/dsp/block"
	"github.com/cwbudde/algo-fx/measure/thd"
	"github.com/spf13/cobra"
	"github.com/tphakala/simd/f32"
)

type analyzeOptions struct {
	freq    float64
	levelDB float64
	samples int
	settle  float64
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Measure the chain's distortion and gain with a test tone",
		Long: `Analyze runs a sine through the chain, lets envelopes settle, then
reports gain and harmonic distortion of the steady-state output.

Examples:
  fxchain analyze
  fxchain analyze --preset tube.yaml --freq 440 --level -12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.analyze(cmd.OutOrStdout(), opts); err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.freq, "freq", 1000, "test tone frequency in Hz")
	f.Float64Var(&opts.levelDB, "level", -6, "test tone peak level in dBFS")
	f.IntVar(&opts.samples, "samples", 16384, "analysis length in samples")
	f.Float64Var(&opts.settle, "settle", 0.5, "seconds processed before analysis")

	return cmd
}

func (a *app) analyze(w io.Writer, opts analyzeOptions) error {
	if opts.samples < block.Size {
		return fmt.Errorf("--samples must be at least %d", block.Size)
	}

	chain, err := a.buildChain(0)
	if err != nil {
		return err
	}

	sr := chain.Context().SampleRate
	if opts.freq <= 0 || opts.freq >= sr/2 {
		return fmt.Errorf("--freq must be in (0, %g)", sr/2)
	}

	settle := int(math.Max(0, opts.settle) * sr)
	amp := math.Pow(10, opts.levelDB/20)
	step := 2 * math.Pi * opts.freq / sr

	in := make([]float32, settle+opts.samples)
	for i := range in {
		in[i] = float32(amp * math.Sin(step*float64(i)))
	}

	host := block.NewSliceHost(in)
	block.Run(host, chain)

	out := host.Output[settle:]
	res := thd.Analyze(out, thd.Config{
		SampleRate:      sr,
		FundamentalFreq: opts.freq,
	})

	gain := 20 * math.Log10(rms(out)/rms(in[settle:]))

	_, err = fmt.Fprintf(w, `tone:        %.1f Hz at %.1f dBFS (%g Hz sample rate)
gain:        %+.2f dB
THD:         %.4f%% (%.1f dB)
THD+N:       %.4f%% (%.1f dB)
even/odd:    %.4f%% / %.4f%%
SINAD:       %.1f dB
`,
		opts.freq, opts.levelDB, sr,
		gain,
		100*res.THD, res.THD_dB,
		100*res.THDN, res.THDN_dB,
		100*res.EvenHD, 100*res.OddHD,
		res.SINAD)

	return err
}

func rms(x []float32) float64 {
	if len(x) == 0 {
		return 0
	}

	return math.Sqrt(float64(f32.DotProductUnsafe(x, x)) / float64(len(x)))
}
