package fastmath

import "math"

const (
	log2e = 1.44269504

	// 2^f ≈ 1 + f*(expA + expB*f) on [0, 1), exact at both ends.
	expA = 0.6602
	expB = 1 - expA

	minExp2 = -126
	maxExp2 = 127
)

// Exp approximates e^x. x·log2(e) is split into an integer part, added to
// the exponent field, and a fractional part evaluated by a quadratic.
// Results below the smallest normal flush to 0; overflow saturates at
// math.MaxFloat32.
func Exp(x float32) float32 {
	t := x * log2e
	if t != t {
		return t
	}

	if t < minExp2 {
		return 0
	}

	if t >= maxExp2 {
		return math.MaxFloat32
	}

	i := int32(t)
	if float32(i) > t {
		i--
	}

	f := t - float32(i)

	return scaleExp(1+f*(expA+expB*f), i)
}

// DBToLinear converts decibels to a linear amplitude factor using [Exp].
func DBToLinear(db float32) float32 {
	return Exp(db * DBToLog)
}
