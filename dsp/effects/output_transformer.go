package effects

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/fastmath"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	defaultOutputTransformerDrive = 1.0
	maxOutputTransformerDrive     = 10.0
)

// OutputTransformer is a memoryless tanh soft clipper, y = tanh(drive·x).
type OutputTransformer struct {
	drive param.Float
}

// NewOutputTransformer creates an OutputTransformer with drive 1.
func NewOutputTransformer() *OutputTransformer {
	t := &OutputTransformer{}
	t.drive.Store(defaultOutputTransformerDrive)

	return t
}

// Drive returns the input gain.
func (t *OutputTransformer) Drive() float64 { return float64(t.drive.Load()) }

// SetDrive sets the input gain, clamped to [0, 10].
func (t *OutputTransformer) SetDrive(drive float64) error {
	if err := core.CheckFinite("output transformer drive", drive); err != nil {
		return err
	}

	t.drive.Store(float32(core.Clamp(drive, 0, maxOutputTransformerDrive)))

	return nil
}

// ProcessSample processes one sample.
func (t *OutputTransformer) ProcessSample(x float32) float32 {
	return fastmath.Tanh(t.drive.Load() * x)
}

// ProcessBlock processes src into dst; dst and src may alias.
func (t *OutputTransformer) ProcessBlock(dst, src []float32) {
	n := min(len(dst), len(src))
	d := t.drive.Load()

	for i := range n {
		dst[i] = fastmath.Tanh(d * src[i])
	}
}

// Reset is a no-op; the transformer has no state.
func (t *OutputTransformer) Reset() {}
