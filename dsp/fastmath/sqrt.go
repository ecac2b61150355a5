package fastmath

import "math"

// Quadratic fit of sqrt(m) on the mantissa interval [1, 2).
const (
	sqrtC0 = 0.446901
	sqrtC1 = 0.625539
	sqrtC2 = -0.071254

	sqrt2 = 1.41421356
)

// SqrtEstimate approximates sqrt(x) without iteration: the exponent is
// halved directly in the bit pattern and the mantissa goes through a
// quadratic. Negative, zero and denormal inputs return 0.
func SqrtEstimate(x float32) float32 {
	b := math.Float32bits(x)
	if b&signMask != 0 || b&expMask == 0 {
		return 0
	}

	if b&expMask == expMask {
		return x
	}

	e := exponent(b)
	m := mantissa(b)

	y := sqrtC0 + m*(sqrtC1+sqrtC2*m)
	if e&1 != 0 {
		y *= sqrt2
	}

	return scaleExp(y, e>>1)
}

// Sqrt refines [SqrtEstimate] with one Newton step on f(y) = y² - x.
func Sqrt(x float32) float32 {
	y := SqrtEstimate(x)
	if y == 0 || y > math.MaxFloat32 || y != y {
		return y
	}

	return 0.5 * (y + x/y)
}
