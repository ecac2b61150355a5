// Package fastmath provides float32 approximations of the transcendental
// functions used in per-sample audio loops.
//
// Every function works on the IEEE-754 single-precision bit pattern
// (1 sign bit, 8 exponent bits, 23 mantissa bits) obtained through
// [math.Float32bits], followed by at most one refinement step. None of them
// calls the exact routines of package math.
//
// # Accuracy Characteristics
//
// Abs, NonZero, IsNegative: exact.
//
// SqrtEstimate: squared result within 0.3% of x; Sqrt adds one Newton step
// and is within 0.001%.
//
// RecipEstimate: <5.1% relative error; Recip: <0.26%.
//
// Exp: <0.3% relative error over the float32 range.
//
// Log: <0.001 absolute error for positive normal inputs.
//
// Tanh: <1e-6 absolute error on [-3, 3], clamped to [-1, 1] beyond.
//
// Sin: <0.0017 absolute error.
//
// Pow: exact for integer exponents, <13% relative error otherwise.
//
// All functions are pure and safe for concurrent use.
package fastmath
