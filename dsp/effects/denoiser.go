package effects

const denoiseGroup = 4

// Denoiser is a group-averaging smoother. Each group of four samples is
// replaced by a ramp from the previous group's mean toward the current
// one, which removes content near Nyquist.
//
// A trailing partial group is averaged over its own length.
type Denoiser struct {
	last float32
}

// NewDenoiser creates a Denoiser.
func NewDenoiser() *Denoiser {
	return &Denoiser{}
}

// ProcessBlock smooths src into dst; dst and src may alias.
func (d *Denoiser) ProcessBlock(dst, src []float32) {
	n := min(len(dst), len(src))

	for start := 0; start < n; start += denoiseGroup {
		end := min(start+denoiseGroup, n)
		size := float32(end - start)

		var sum float32
		for _, v := range src[start:end] {
			sum += v
		}

		mean := sum / size
		step := (mean - d.last) / size

		for i := start; i < end; i++ {
			dst[i] = d.last + step*float32(i-start)
		}

		d.last = mean
	}
}

// Reset clears the carried group mean.
func (d *Denoiser) Reset() {
	d.last = 0
}
