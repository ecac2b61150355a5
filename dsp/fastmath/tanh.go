package fastmath

// tanhSaturate is where the rational has already reached 1; beyond it the
// cubic terms would overflow float32 and divide Inf by Inf.
const tanhSaturate = 9

// Tanh approximates tanh(x) with Lambert's continued fraction truncated to
// a 7th/6th-order rational. The result is clamped to [-1, 1], where the
// rational would otherwise creep past 1 for |x| > 5, and is ±1 for ±Inf.
// Tanh(-x) == -Tanh(x) holds bit for bit.
func Tanh(x float32) float32 {
	if x > tanhSaturate {
		return 1
	}

	if x < -tanhSaturate {
		return -1
	}

	x2 := x * x
	a := (((x2+378)*x2+17325)*x2 + 135135) * x
	b := ((28*x2+3150)*x2+62370)*x2 + 135135

	y := a / b
	if y > 1 {
		return 1
	}

	if y < -1 {
		return -1
	}

	return y
}
