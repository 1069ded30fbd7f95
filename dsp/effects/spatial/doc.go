// Package spatial provides the stereo-field processors of the mastering
// chain.
//
// Included processors:
//   - StereoImager: mid/side width control above an optional mono-safe
//     low band.
//   - BassManager: collapses the low band to mono below a crossover.
//
// The imager takes its high band as the exact complement of an LR4
// low-pass, so width 1 reconstructs the input. The bass manager uses the
// full LR4 low/high pair for a steep mono/stereo separation.
package spatial
