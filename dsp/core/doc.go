// Package core holds the numeric and buffer helpers shared by every
// processor: dB conversion with a level floor, one-pole time constants,
// sample-rate validation and non-finite sample sanitizing.
//
// Building with the fastmath tag routes the exponential and logarithm used
// by the dB helpers through github.com/meko-christian/algo-approx.
package core
