// Package crossover provides a two-way 4th-order Linkwitz-Riley band
// splitter for stereo and bass-management processing.
//
// Each band is built from two cascaded Butterworth biquads. Two splits are
// offered:
//
//   - ProcessSample returns the LR4 lowpass and highpass outputs. They sum to
//     an allpass-filtered version of the input (flat magnitude) and separate
//     steeply.
//   - Complement returns the LR4 lowpass and x - low. The bands sum back to
//     the input exactly, so leaving both untouched is an identity.
//
// Example:
//
//	xo, _ := crossover.New(120, 48000)
//	lo, hi := xo.ProcessSample(inputSample)
//	sum := lo + hi // ≈ allpass-filtered input
package crossover
