package block

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const bytesPerSample = 4

// StreamHost is a Host reading little-endian float32 samples from an
// io.Reader and writing processed samples to an io.Writer. A short final
// read is zero-padded for processing, and only the samples actually read
// are written back. Trailing bytes short of a whole sample are reported by
// Err.
//
// Receive and Transmit must alternate, as Update calls them.
type StreamHost struct {
	r    io.Reader
	w    io.Writer
	pool *Pool

	raw     [Size * bytesPerSample]byte
	pending int
	done    bool
	err     error
	samples int64
}

// NewStreamHost returns a StreamHost over r and w. Either may be nil: a nil
// reader yields no input, a nil writer discards output.
func NewStreamHost(r io.Reader, w io.Writer) *StreamHost {
	return &StreamHost{r: r, w: w, pool: NewPool()}
}

// Receive reads the next block from the reader.
func (h *StreamHost) Receive() *Block {
	if h.done || h.r == nil {
		return nil
	}

	n, err := io.ReadFull(h.r, h.raw[:])
	switch {
	case errors.Is(err, io.EOF):
		h.done = true
		return nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		h.done = true

		if rem := n % bytesPerSample; rem != 0 {
			h.err = fmt.Errorf("block: read: %w: %d trailing bytes", io.ErrUnexpectedEOF, rem)
		}
	case err != nil:
		h.done = true
		h.err = fmt.Errorf("block: read: %w", err)

		return nil
	}

	count := n / bytesPerSample
	if count == 0 {
		return nil
	}

	b := h.pool.Get()
	for i := range count {
		b.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(h.raw[i*bytesPerSample:]))
	}

	h.pending = count

	return b
}

// Allocate returns a zeroed block from the host's pool.
func (h *StreamHost) Allocate() *Block {
	return h.pool.Get()
}

// Transmit writes as many samples as the matching Receive read.
func (h *StreamHost) Transmit(b *Block) {
	count := h.pending
	h.pending = 0

	if h.w == nil || count == 0 {
		return
	}

	for i := range count {
		binary.LittleEndian.PutUint32(h.raw[i*bytesPerSample:], math.Float32bits(b.Data[i]))
	}

	if _, err := h.w.Write(h.raw[:count*bytesPerSample]); err != nil {
		h.err = fmt.Errorf("block: write: %w", err)
		h.done = true

		return
	}

	h.samples += int64(count)
}

// Release returns b to the host's pool.
func (h *StreamHost) Release(b *Block) {
	h.pool.Put(b)
}

// Err returns the first read or write error, if any. A clean end of input
// is not an error; input ending inside a sample is, after the complete
// samples before it have been processed.
func (h *StreamHost) Err() error { return h.err }

// Written returns the number of samples written so far.
func (h *StreamHost) Written() int64 { return h.samples }

// SliceHost is a Host over an in-memory input slice. Output accumulates in
// Output, with the same length as the input once drained.
type SliceHost struct {
	in      []float32
	pos     int
	pending int
	pool    *Pool

	// Output holds the transmitted samples.
	Output []float32
}

// NewSliceHost returns a SliceHost reading from in.
func NewSliceHost(in []float32) *SliceHost {
	return &SliceHost{
		in:     in,
		pool:   NewPool(),
		Output: make([]float32, 0, len(in)),
	}
}

// Receive copies the next block of input, zero-padding a short tail.
func (h *SliceHost) Receive() *Block {
	if h.pos >= len(h.in) {
		return nil
	}

	b := h.pool.Get()
	h.pending = copy(b.Data[:], h.in[h.pos:])
	h.pos += h.pending

	return b
}

// Allocate returns a zeroed block.
func (h *SliceHost) Allocate() *Block {
	return h.pool.Get()
}

// Transmit appends the samples matching the last Receive to Output.
func (h *SliceHost) Transmit(b *Block) {
	h.Output = append(h.Output, b.Data[:h.pending]...)
	h.pending = 0
}

// Release returns b to the pool.
func (h *SliceHost) Release(b *Block) {
	h.pool.Put(b)
}
