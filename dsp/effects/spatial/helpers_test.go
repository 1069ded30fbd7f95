package spatial

import "math"

// sideRMS returns the RMS of (L-R)/2 over the given range.
func sideRMS(left, right []float32) float64 {
	sum := 0.0
	for i := range left {
		s := (float64(left[i]) - float64(right[i])) * 0.5
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(left)))
}
