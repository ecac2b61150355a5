// Package biquad provides the second-order IIR section used by the effects.
//
// A [Section] runs Direct Form I on float32 samples with its own
// two-sample input and output history ([History]). Coefficients are kept
// separate from the history so a processor can hold coefficient sets in a
// published snapshot while each stage owns its state.
//
// Coefficient design lives in dsp/filter/design.
package biquad
