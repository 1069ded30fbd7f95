// Package eq implements the static mastering equalizer: an ordered list of
// peaking bands behind an optional high-pass, with guard rails that keep
// corrective cuts from thinning out the mix.
//
// Rejected and clamped requests are not errors. They are reported through
// the logrus logger passed with WithLogger and are visible afterwards in
// Bands.
package eq
