package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float32 {
	out := make([]float32, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = float32(value)
	}
	return out
}

// Ramp generates a linear ramp from start to end (inclusive).
func Ramp(start, end float64, length int) []float32 {
	out := make([]float32, length)
	if length == 1 {
		out[0] = float32(start)
		return out
	}
	for i := range out {
		out[i] = float32(start + (end-start)*float64(i)/float64(length-1))
	}
	return out
}

// Clone returns a copy of data.
func Clone(data []float32) []float32 {
	out := make([]float32, len(data))
	copy(out, data)
	return out
}

// Bursts alternates loud and quiet sine segments of segLen samples each,
// starting with the loud one.
func Bursts(freqHz, sampleRate, loud, quiet float64, segLen, segments int) []float32 {
	out := make([]float32, segLen*segments)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		amp := quiet
		if (i/segLen)%2 == 0 {
			amp = loud
		}
		out[i] = float32(amp * math.Sin(step*float64(i)))
	}
	return out
}
