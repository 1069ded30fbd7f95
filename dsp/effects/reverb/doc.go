// Package reverb provides the mastering chain's algorithmic reverb.
//
// MotionReverb is a Freeverb-topology reverb (8 damped combs into 4 series
// all-passes) whose wet gain is gently modulated by a slow LFO so the tail
// never settles into a static, metallic resonance.
package reverb
