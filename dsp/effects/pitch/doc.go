// Package pitch implements automatic pitch correction.
//
// The pieces compose into [Corrector]:
//
//   - [Detector]: YIN-style fundamental estimation with an FFT-backed
//     difference function.
//   - [Quantizer]: snaps a frequency to the nearest note of a key and scale.
//   - [Shifter]: granular overlap-add pitch shifter with period-aligned
//     read jumps.
package pitch
