package block

// Processor transforms one block of samples. dst and src have the same
// length and may alias.
type Processor interface {
	ProcessBlock(dst, src []float32)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(dst, src []float32)

// ProcessBlock calls f(dst, src).
func (f ProcessorFunc) ProcessBlock(dst, src []float32) { f(dst, src) }

// Host supplies and consumes blocks.
type Host interface {
	// Receive returns the next input block, or nil if none is available.
	// The block is read-only to the caller.
	Receive() *Block
	// Allocate returns a zeroed output block, or nil if none is available.
	Allocate() *Block
	// Transmit sends an output block downstream. The host does not take
	// ownership; the caller still releases it.
	Transmit(b *Block)
	// Release gives a block back to the host.
	Release(b *Block)
}

// Update runs one processing step. It returns false, after releasing any
// block it did obtain, when the host has no input or no output block.
func Update(h Host, p Processor) bool {
	in := h.Receive()
	if in == nil {
		return false
	}

	out := h.Allocate()
	if out == nil {
		h.Release(in)
		return false
	}

	p.ProcessBlock(out.Data[:], in.Data[:])
	h.Transmit(out)
	h.Release(out)
	h.Release(in)

	return true
}

// Run calls Update until it reports false and returns the number of blocks
// processed.
func Run(h Host, p Processor) int {
	n := 0
	for Update(h, p) {
		n++
	}

	return n
}
