// Package biquad provides the second-order IIR section every equalizer,
// detector and crossover in the mastering chain is built from.
//
// A [Filter] derives its [Coefficients] from the RBJ audio-EQ cookbook for
// peaking, high-pass and low-pass responses and runs a Direct Form I
// recurrence over float32 sample buffers in place. Internal state is kept in
// float64.
package biquad
