package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) of the section
// at freqHz for the given sample rate. Analysis runs in float64.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(float64(c.B0), 0) + complex(float64(c.B1), 0)*ejw + complex(float64(c.B2), 0)*ej2w
	den := complex(1, 0) + complex(float64(c.A1), 0)*ejw + complex(float64(c.A2), 0)*ej2w

	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := float64(c.B0), float64(c.B1), float64(c.B2)
	a1, a2 := float64(c.A1), float64(c.A2)

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw

	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c *Coefficients) Stable() bool {
	a1, a2 := float64(c.A1), float64(c.A2)
	return math.Abs(a2) < 1 && math.Abs(a1) < 1+a2
}

// ImpulseResponse computes n samples of the impulse response. The section
// state is saved and restored.
func (s *Section) ImpulseResponse(n int) []float32 {
	if n <= 0 {
		return nil
	}

	saved := s.State()
	s.Reset()

	ir := make([]float32, n)

	ir[0] = s.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = s.ProcessSample(0)
	}

	s.SetState(saved)

	return ir
}
