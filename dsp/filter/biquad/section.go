package biquad

import "github.com/cwbudde/algo-fx/dsp/fastmath"

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
type Coefficients struct {
	B0, B1, B2 float32 // feedforward (numerator)
	A1, A2     float32 // feedback (denominator)
}

// Identity returns coefficients that pass the signal unchanged.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// History is the Direct Form I state of one section.
type History struct {
	X1, X2 float32
	Y1, Y2 float32
}

// Process filters x with c and advances the history.
func (h *History) Process(c *Coefficients, x float32) float32 {
	y := c.B0*x + c.B1*h.X1 + c.B2*h.X2 - c.A1*h.Y1 - c.A2*h.Y2
	h.X2, h.X1 = h.X1, x
	h.Y2, h.Y1 = h.Y1, y

	return y
}

// ProcessFlush is [History.Process] but stores a zero feedback sample when
// |y| falls below [fastmath.Denorm]. The returned sample is not flushed.
func (h *History) ProcessFlush(c *Coefficients, x float32) float32 {
	y := c.B0*x + c.B1*h.X1 + c.B2*h.X2 - c.A1*h.Y1 - c.A2*h.Y2
	h.X2, h.X1 = h.X1, x
	h.Y2 = h.Y1

	if fastmath.Abs(y) < fastmath.Denorm {
		h.Y1 = 0
	} else {
		h.Y1 = y
	}

	return y
}

// Reset clears the history.
func (h *History) Reset() {
	*h = History{}
}

// Section is a single biquad filter with coefficients and history.
type Section struct {
	Coefficients

	h History
}

// NewSection returns a Section with the given coefficients and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float32) float32 {
	return s.h.Process(&s.Coefficients, x)
}

// ProcessBlock filters buf in place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float32) {
	c := s.Coefficients
	h := s.h

	for i, x := range buf {
		buf[i] = h.Process(&c, x)
	}

	s.h = h
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
func (s *Section) ProcessBlockTo(dst, src []float32) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1] // bounds check hint

	c := s.Coefficients
	h := s.h

	for i, x := range src {
		dst[i] = h.Process(&c, x)
	}

	s.h = h
}

// Reset clears the history.
func (s *Section) Reset() {
	s.h.Reset()
}

// State returns a copy of the history.
func (s *Section) State() History {
	return s.h
}

// SetState restores a previously saved history.
func (s *Section) SetState(h History) {
	s.h = h
}
