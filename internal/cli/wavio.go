package cli

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// wavInfo describes a decoded input file.
type wavInfo struct {
	sampleRate int
	bitDepth   int
	channels   int
}

// readWAV decodes a PCM WAV file and mixes it down to mono.
func readWAV(path string) ([]float32, wavInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wavInfo{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, wavInfo{}, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, wavInfo{}, fmt.Errorf("decode %s: %w", path, err)
	}

	info := wavInfo{
		sampleRate: int(dec.SampleRate),
		bitDepth:   int(dec.BitDepth),
		channels:   int(dec.NumChans),
	}

	switch info.bitDepth {
	case 16, 24, 32:
	default:
		return nil, info, fmt.Errorf("unsupported bit depth %d in %s", info.bitDepth, path)
	}

	if info.channels < 1 {
		return nil, info, errors.New("WAV file has no channels")
	}

	return mixdown(buf.Data, info.channels, info.bitDepth), info, nil
}

// mixdown averages interleaved integer frames into mono samples in [-1, 1).
func mixdown(data []int, channels, bitDepth int) []float32 {
	scale := 1 / (math.Ldexp(1, bitDepth-1) * float64(channels))
	frames := len(data) / channels
	out := make([]float32, frames)

	for i := range out {
		sum := 0
		for ch := range channels {
			sum += data[i*channels+ch]
		}

		out[i] = float32(float64(sum) * scale)
	}

	return out
}

// writeWAV encodes mono samples as 16- or 24-bit PCM, clipping to full scale.
func writeWAV(path string, samples []float32, sampleRate, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("unsupported output bit depth %d: want 16 or 24", bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           quantize(samples, bitDepth),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}

	return f.Close()
}

func quantize(samples []float32, bitDepth int) []int {
	maxVal := math.Ldexp(1, bitDepth-1) - 1
	out := make([]int, len(samples))

	for i, x := range samples {
		v := float64(x)
		if math.IsNaN(v) {
			v = 0
		}

		out[i] = int(math.Round(math.Max(-1, math.Min(1, v)) * maxVal))
	}

	return out
}
