package fastmath

import "math"

const maxPowExponent = 1 << 24

// Pow approximates a^b. The integer part of b is applied exactly by
// repeated squaring; the fractional part interpolates through the exponent
// field of |a|. A negative base therefore only contributes its sign through
// the integer part.
func Pow(a, b float32) float32 {
	if b == 0 {
		return 1
	}

	if a == 0 {
		if b > 0 {
			return 0
		}

		return math.MaxFloat32
	}

	if b > maxPowExponent {
		b = maxPowExponent
	} else if b < -maxPowExponent {
		b = -maxPowExponent
	}

	n := int32(b)
	frac := b - float32(n)

	base := a
	if n < 0 {
		base = 1 / a
		n = -n
	}

	r := float32(1)
	for n > 0 {
		if n&1 != 0 {
			r *= base
		}

		base *= base
		n >>= 1
	}

	if frac != 0 {
		mag := int32(bitsOf(a) &^ signMask)
		r *= math.Float32frombits(uint32(int32(frac*float32(mag-oneBits)) + oneBits))
	}

	return r
}
