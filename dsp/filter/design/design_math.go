//go:build !fastmath

package design

import "math"

// pow10 computes 10^x using standard library math.
func pow10(x float64) float64 {
	return math.Pow(10, x)
}

// sqrt computes sqrt(x) using standard library math.
func sqrt(x float64) float64 {
	return math.Sqrt(x)
}
