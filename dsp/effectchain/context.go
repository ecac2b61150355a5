package effectchain

import "github.com/cwbudde/algo-fx/dsp/core"

// Context provides environmental information that effects need.
type Context struct {
	SampleRate float64
	BlockSize  int
}

// contextFrom converts processor settings into a Context.
func contextFrom(cfg core.ProcessorConfig) Context {
	return Context{SampleRate: cfg.SampleRate, BlockSize: cfg.BlockSize}
}
