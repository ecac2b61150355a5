package cli

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"

	"github.com/cwbudde/algo-fx/dsp/block"
)

// encodeSamples packs samples as little-endian float32.
func encodeSamples(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, x := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(x))
	}

	return out
}

// loopReader repeats data forever.
type loopReader struct {
	data []byte
	pos  int
}

func (l *loopReader) Read(p []byte) (int, error) {
	if len(l.data) == 0 {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) {
		c := copy(p[n:], l.data[l.pos:])
		n += c
		l.pos = (l.pos + c) % len(l.data)
	}

	return n, nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}

// processedStream returns a reader yielding samples run through proc, as
// little-endian float32. With loop set the input repeats until ctx is done.
// Closing the reader stops processing.
func processedStream(ctx context.Context, proc block.Processor, samples []float32, loop bool) io.ReadCloser {
	data := encodeSamples(samples)

	var src io.Reader = bytes.NewReader(data)
	if loop {
		src = &loopReader{data: data}
	}

	pr, pw := io.Pipe()

	go func() {
		host := block.NewStreamHost(ctxReader{ctx: ctx, r: src}, pw)
		block.Run(host, proc)
		pw.CloseWithError(host.Err())
	}()

	return pr
}
