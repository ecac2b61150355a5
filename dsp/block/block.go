package block

import "github.com/cwbudde/algo-fx/dsp/core"

// Size is the number of samples per block.
const Size = core.DefaultBlockSize

// Scale factors between int16 PCM and float samples.
const (
	IntToFloat = 1.0 / 32768
	FloatToInt = 32767
)

// Block is one mono block of float32 samples.
type Block struct {
	Data [Size]float32
}

// Samples returns the block's samples as a slice.
func (b *Block) Samples() []float32 {
	return b.Data[:]
}

// Zero clears all samples.
func (b *Block) Zero() {
	clear(b.Data[:])
}

// FromInt16 fills the block from int16 PCM, scaled by IntToFloat. Samples
// beyond len(src) are zeroed. It returns the number of samples copied.
func (b *Block) FromInt16(src []int16) int {
	n := min(len(src), Size)
	for i := range n {
		b.Data[i] = float32(src[i]) * IntToFloat
	}

	clear(b.Data[n:])

	return n
}

// ToInt16 writes the block to int16 PCM, scaled by FloatToInt and clamped
// to the int16 range. It returns the number of samples written.
func (b *Block) ToInt16(dst []int16) int {
	n := min(len(dst), Size)
	for i := range n {
		dst[i] = FloatToInt16(b.Data[i])
	}

	return n
}

// FloatToInt16 converts one sample, clamping to [-32768, 32767].
func FloatToInt16(x float32) int16 {
	v := x * FloatToInt
	switch {
	case v >= 32767:
		return 32767
	case v <= -32768:
		return -32768
	case v != v:
		return 0
	default:
		return int16(v)
	}
}
