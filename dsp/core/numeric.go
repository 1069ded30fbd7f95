package core

import "math"

const (
	defaultEpsilon = 1e-12

	// LevelFloor is the smallest linear magnitude fed into a logarithm.
	// Values below it are treated as LevelFloor so dB conversions stay finite.
	LevelFloor = 1e-10
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampFinite behaves like Clamp but returns fallback for NaN or Inf input.
func ClampFinite(value, min, max, fallback float64) float64 {
	if !IsFinite(value) {
		return fallback
	}

	return Clamp(value, min, max)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	if db == 0 {
		return 1
	}

	return mathExp(db * ln10Div20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Magnitudes are floored at LevelFloor, so the result is never -Inf or NaN
// (-200 dB for silence, negative input is treated by magnitude).
func LinearToDB(linear float64) float64 {
	linear = math.Abs(linear)
	if linear < LevelFloor || math.IsNaN(linear) {
		linear = LevelFloor
	}

	return mathLog(linear) / ln10Div20
}

// TimeCoeff returns the one-pole smoothing coefficient 1-exp(-1/(τ·fs)) for
// a time constant given in milliseconds. Non-positive times yield 1 (instant).
func TimeCoeff(ms, sampleRate float64) float64 {
	seconds := ms / 1000.0
	if seconds <= 0 || sampleRate <= 0 || !IsFinite(seconds) {
		return 1
	}

	coeff := 1.0 - math.Exp(-1.0/(seconds*sampleRate))

	return Clamp(coeff, 0, 1)
}

// ValidateSampleRate returns an error if sampleRate is not positive and finite.
func ValidateSampleRate(component string, sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return &SampleRateError{Component: component, SampleRate: sampleRate}
	}

	return nil
}
