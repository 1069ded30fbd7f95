// Package effects provides the static and time-based mastering effects.
//
// Subpackages:
//   - github.com/cwbudde/algo-mastering/dsp/effects/dynamics
//   - github.com/cwbudde/algo-mastering/dsp/effects/pitch
//   - github.com/cwbudde/algo-mastering/dsp/effects/reverb
//   - github.com/cwbudde/algo-mastering/dsp/effects/spatial
//
// Effects remaining in this package:
//   - Saturation: tube, tape and transformer waveshaping with dry/wet mix.
//   - Clipper: soft/hard blended clipper above a linear threshold.
//   - Delay: damped feedback delay with tempo-synced note divisions.
//
// All effects process float32 buffers in place with allocation-free hot
// paths.
package effects
