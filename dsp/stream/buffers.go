package stream

import (
	"github.com/gopxl/beep"
)

const readBlock = 4096

// ReadAll drains s into left and right channel buffers.
func ReadAll(s beep.Streamer) (left, right []float32, err error) {
	block := make([][2]float64, readBlock)
	for {
		n, ok := s.Stream(block)
		for _, f := range block[:n] {
			left = append(left, float32(f[0]))
			right = append(right, float32(f[1]))
		}
		if !ok {
			break
		}
	}
	return left, right, s.Err()
}

// Samples returns a streamer that plays left and right once. Only the
// frames both channels share are streamed.
func Samples(left, right []float32) beep.Streamer {
	n := min(len(left), len(right))
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		k := copyFrames(samples, left[pos:n], right[pos:n])
		pos += k
		return k, true
	})
}

func copyFrames(dst [][2]float64, left, right []float32) int {
	k := min(len(dst), len(left))
	for i := 0; i < k; i++ {
		dst[i] = [2]float64{float64(left[i]), float64(right[i])}
	}
	return k
}
