// Package dynamics provides the per-sample compressors of the effects chain.
//
// Included processors:
//   - FETCompressor: fast RMS-detecting compressor with switchable ratios,
//     a blown-capacitor detector and an all-buttons ratio modulation mode.
//   - OpticalCompressor: program-dependent compressor whose ratio grows
//     smoothly with the over-threshold level, with six time-constant presets.
//
// Both share the same detector: an exponential mean-square follower, a dB
// conversion against the threshold, and a two-phase attack/release smoother
// running on the over-threshold level. Transcendentals on the audio path go
// through package fastmath.
//
// Parameters may be changed from any goroutine while ProcessBlock runs.
// Meters (GainReduction, RunningLevel, Metrics) are readable from any
// goroutine.
package dynamics
