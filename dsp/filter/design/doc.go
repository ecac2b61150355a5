// Package design computes RBJ cookbook biquad coefficients.
//
// Each designer exists in a Raw form, returning the six unnormalized
// coefficients, and a normalized form returning [biquad.Coefficients].
// Shelf-slope parameterized high- and low-pass designs ([HighpassSlope],
// [LowpassSlope]) derive Q from a gain and slope pair as the parametric EQ
// does.
//
// Building with the fastmath tag routes the designers' pow and sqrt through
// algo-approx.
package design
