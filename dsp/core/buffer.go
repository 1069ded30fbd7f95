package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// EnsureLen32 is EnsureLen for float32 sample buffers.
func EnsureLen32(buf []float32, n int) []float32 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float32, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// StereoLen returns the number of frames two channel slices can share.
func StereoLen(left, right []float32) int {
	if len(right) < len(left) {
		return len(right)
	}
	return len(left)
}

// SanitizeSample returns 0 for NaN or ±Inf and x otherwise.
func SanitizeSample(x float64) float64 {
	if IsFinite(x) {
		return x
	}
	return 0
}

// SanitizeInPlace zeroes every non-finite sample in buf and returns how many
// samples were replaced.
func SanitizeInPlace(buf []float32) int {
	replaced := 0
	for i, v := range buf {
		if !IsFinite(float64(v)) {
			buf[i] = 0
			replaced++
		}
	}
	return replaced
}
