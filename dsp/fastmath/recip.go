package fastmath

import "math"

const recipMagic = 0x7ef311c7

// RecipEstimate approximates 1/x by subtracting the magnitude bits from a
// magic constant. The sign of x is preserved. Inputs too large to invert
// return a signed zero.
func RecipEstimate(x float32) float32 {
	b := math.Float32bits(x)

	mag := b &^ signMask
	if mag >= recipMagic {
		return math.Float32frombits(b & signMask)
	}

	return math.Float32frombits((recipMagic - mag) | (b & signMask))
}

// Recip refines [RecipEstimate] with one Newton-Raphson step.
func Recip(x float32) float32 {
	y := RecipEstimate(x)
	return y * (2 - y*x)
}
