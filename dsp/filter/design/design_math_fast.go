//go:build fastmath

package design

import approx "github.com/meko-christian/algo-approx"

// ln10 is the natural logarithm of 10.
const ln10 = 2.302585092994045684017991454684

// pow10 computes 10^x using fast approximation: 10^x = e^(x * ln(10)).
func pow10(x float64) float64 {
	return approx.FastExp(x * ln10)
}

// sqrt computes sqrt(x) using fast approximation.
func sqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
