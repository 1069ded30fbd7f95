package dynamics

import "github.com/cwbudde/algo-mastering/dsp/core"

// follower is an asymmetric one-pole envelope tracker.
type follower struct {
	attack  float64
	release float64
	value   float64
}

func newFollower(attackMs, releaseMs, sampleRate float64) follower {
	f := follower{}
	f.setTimes(attackMs, releaseMs, sampleRate)
	return f
}

func (f *follower) setTimes(attackMs, releaseMs, sampleRate float64) {
	f.attack = core.TimeCoeff(attackMs, sampleRate)
	f.release = core.TimeCoeff(releaseMs, sampleRate)
}

func (f *follower) process(x float64) float64 {
	if x > f.value {
		f.value += (x - f.value) * f.attack
	} else {
		f.value += (x - f.value) * f.release
	}
	f.value = core.FlushDenormals(f.value)
	return f.value
}

func (f *follower) reset() {
	f.value = 0
}

func absMax(a, b float32) float64 {
	x, y := float64(a), float64(b)
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	if y > x {
		return y
	}
	return x
}

func abs64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
