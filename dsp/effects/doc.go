// Package effects provides the tone-shaping stages of the effects chain.
//
// Subpackages:
//   - github.com/cwbudde/algo-fx/dsp/effects/dynamics
//   - github.com/cwbudde/algo-fx/dsp/effects/eq
//
// Effects in this package:
//   - Exciter: band-limited clipped harmonics mixed back over the input.
//   - TubeSaturator: oversampled tanh-of-polynomial waveshaper.
//   - OutputTransformer: soft tanh saturation at a fixed drive.
//   - Denoiser: group-averaging smoother for broadband hiss.
//
// Effects process float32 samples in place or out of place, and publish
// parameter changes atomically so setters may run on any goroutine while
// the audio goroutine processes.
package effects
