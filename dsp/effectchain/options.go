package effectchain

import (
	"log/slog"

	"github.com/cwbudde/algo-fx/dsp/core"
)

type chainConfig struct {
	processor []core.ProcessorOption
	logger    *slog.Logger
}

// Option configures a Chain.
type Option func(*chainConfig)

// WithSampleRate overrides the sample rate the effects are built for.
func WithSampleRate(sampleRate float64) Option {
	return WithProcessorOptions(core.WithSampleRate(sampleRate))
}

// WithBlockSize overrides the maximum number of samples processed per
// stage call. Longer inputs are split.
func WithBlockSize(blockSize int) Option {
	return WithProcessorOptions(core.WithBlockSize(blockSize))
}

// WithProcessorOptions applies generic processor settings.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(c *chainConfig) { c.processor = append(c.processor, opts...) }
}

// WithLogger sets the logger used for chain construction and parameter
// changes. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *chainConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func applyOptions(base []core.ProcessorOption, opts []Option) chainConfig {
	cfg := chainConfig{
		processor: append([]core.ProcessorOption(nil), base...),
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
