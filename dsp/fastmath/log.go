package fastmath

const (
	ln2 = 0.693147181

	// log1p(u) ≈ u*(logC1 + u*(logC2 + logC3*u)) on [0, 1).
	logC1 = 0.986688
	logC2 = -0.4074
	logC3 = 0.114769

	// MinLog is returned for zero, negative and denormal inputs: ln(2^-126).
	MinLog = -87.33654
)

// Log approximates the natural logarithm. The exponent field contributes a
// linear term, the mantissa goes through a cubic approximation of log1p.
// Non-positive and denormal inputs return [MinLog] rather than -Inf.
func Log(x float32) float32 {
	b := bitsOf(x)
	if b&signMask != 0 || b&expMask == 0 {
		return MinLog
	}

	if b&expMask == expMask {
		return x
	}

	u := mantissa(b) - 1

	return float32(exponent(b))*ln2 + u*(logC1+u*(logC2+logC3*u))
}
