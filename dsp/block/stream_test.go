package block

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/cwbudde/algo-fx/internal/testutil"
)

func encodeFloats(x []float32) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, x)
	return buf.Bytes()
}

func decodeFloats(t *testing.T, b []byte) []float32 {
	t.Helper()
	out := make([]float32, len(b)/4)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestStreamHostRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		length int
		blocks int
	}{
		{"empty", 0, 0},
		{"one sample", 1, 1},
		{"exact blocks", 2 * Size, 2},
		{"partial tail", 2*Size + 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testutil.DeterministicNoise(7, 0.5, tt.length)

			var out bytes.Buffer
			h := NewStreamHost(bytes.NewReader(encodeFloats(in)), &out)

			if n := Run(h, NewMeter()); n != tt.blocks {
				t.Fatalf("Run = %d blocks, want %d", n, tt.blocks)
			}

			if err := h.Err(); err != nil {
				t.Fatalf("Err() = %v", err)
			}

			if h.Written() != int64(tt.length) {
				t.Fatalf("Written() = %d, want %d", h.Written(), tt.length)
			}

			testutil.RequireSliceNearlyEqual(t, decodeFloats(t, out.Bytes()), in, 0)
		})
	}
}

func TestStreamHostTrailingBytes(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		extra   int
		blocks  int
	}{
		{"partial block", 3, 2, 1},
		{"after full block", Size, 1, 1},
		{"three bytes", Size + 7, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testutil.DeterministicNoise(3, 0.5, tt.samples)
			raw := append(encodeFloats(in), make([]byte, tt.extra)...)

			var out bytes.Buffer
			h := NewStreamHost(bytes.NewReader(raw), &out)

			if n := Run(h, NewMeter()); n != tt.blocks {
				t.Fatalf("Run = %d blocks, want %d", n, tt.blocks)
			}

			err := h.Err()
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Fatalf("Err() = %v, want io.ErrUnexpectedEOF", err)
			}

			if want := fmt.Sprintf("%d trailing bytes", tt.extra); !strings.Contains(err.Error(), want) {
				t.Errorf("Err() = %q, want it to mention %q", err, want)
			}

			if h.Written() != int64(tt.samples) {
				t.Fatalf("Written() = %d, want %d", h.Written(), tt.samples)
			}

			testutil.RequireSliceNearlyEqual(t, decodeFloats(t, out.Bytes()), in, 0)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStreamHostWriteError(t *testing.T) {
	in := make([]float32, 4*Size)
	h := NewStreamHost(bytes.NewReader(encodeFloats(in)), failingWriter{})

	if n := Run(h, NewMeter()); n != 1 {
		t.Fatalf("Run = %d blocks, want 1 before the write error stops it", n)
	}

	if h.Err() == nil {
		t.Fatal("Err() = nil after failed write")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestStreamHostReadError(t *testing.T) {
	h := NewStreamHost(failingReader{}, io.Discard)

	if n := Run(h, NewMeter()); n != 0 {
		t.Fatalf("Run = %d blocks, want 0", n)
	}

	if !errors.Is(h.Err(), io.ErrClosedPipe) {
		t.Fatalf("Err() = %v, want wrapped io.ErrClosedPipe", h.Err())
	}
}

func TestStreamHostNilReader(t *testing.T) {
	h := NewStreamHost(nil, nil)
	if b := h.Receive(); b != nil {
		t.Fatal("Receive returned a block without a reader")
	}
}
