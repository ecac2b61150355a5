// Package eq provides a six-stage parametric equalizer.
//
// The cascade order is fixed: highpass, four peaking bands (low, low-mid,
// high-mid, high), lowpass, output gain. A stage whose controlling frequency
// is zero or whose gain is 0 dB is skipped entirely; the lowpass is skipped
// at or above Nyquist. Each stage owns an independent Direct Form I history.
package eq
