package fastmath

import "math"

const (
	signMask = 0x80000000
	expMask  = 0x7f800000
	mantMask = 0x007fffff
	expBias  = 127
	oneBits  = 0x3f800000
)

// Abs returns |x| by clearing the sign bit.
func Abs(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ signMask)
}

// NonZero reports whether x is neither +0 nor -0.
func NonZero(x float32) bool {
	return math.Float32bits(x)&^signMask != 0
}

// IsNegative reports whether the sign bit of x is set. Note that -0 is
// negative under this test.
func IsNegative(x float32) bool {
	return math.Float32bits(x)&signMask != 0
}

// exponent returns the unbiased exponent of a positive normal x.
func exponent(b uint32) int32 {
	return int32(b>>23&0xff) - expBias
}

// mantissa returns the mantissa of b as a value in [1, 2).
func mantissa(b uint32) float32 {
	return math.Float32frombits(b&mantMask | oneBits)
}

// scaleExp adds n to the exponent field of y.
func scaleExp(y float32, n int32) float32 {
	return math.Float32frombits(uint32(int32(math.Float32bits(y)) + n<<23))
}
