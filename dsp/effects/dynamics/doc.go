// Package dynamics provides the level-dependent processors of the mastering
// chain.
//
// Included processors:
//   - Compressor: RMS-detecting soft-knee compressor with linear-domain gain
//     smoothing and stereo-linked detection.
//   - ParallelCompressor: heavily ratioed Compressor blended with the dry path.
//   - Limiter: lookahead peak limiter with instant attack and smoothed release.
//   - Gate: noise gate with hysteresis and a finite closed-state range.
//   - DeEsser: sibilance-triggered full-band gain ducking.
//   - DynamicEQ: per-band downward correction added back onto the dry signal.
//   - TransientShaper: dual-envelope attack/sustain shaping.
//
// Every processor works in place on float32 buffers, keeps its state across
// calls until Reset, and is not safe for concurrent use.
package dynamics
