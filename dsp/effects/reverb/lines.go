package reverb

import "github.com/cwbudde/algo-mastering/dsp/core"

const denormalFloor = 1e-23

// comb is a feedback comb with a one-pole low-pass in the loop. The buffer
// is allocated at the largest size and re-sliced when the size changes.
type comb struct {
	backing  []float64
	buffer   []float64
	index    int
	feedback float64
	dampA    float64
	dampB    float64
	store    float64
}

func newComb(capacity int) comb {
	b := make([]float64, capacity)
	return comb{backing: b, buffer: b}
}

func (c *comb) setLength(n int) {
	n = max(1, min(n, len(c.backing)))
	c.buffer = c.backing[:n]
	if c.index >= n {
		c.index = 0
	}
}

func (c *comb) setDamp(v float64) {
	c.dampA = v
	c.dampB = 1 - v
}

func (c *comb) process(input float64) float64 {
	output := c.buffer[c.index]
	c.store = output*c.dampB + c.store*c.dampA
	if c.store > -denormalFloor && c.store < denormalFloor {
		c.store = 0
	}
	c.buffer[c.index] = input + c.store*c.feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return output
}

func (c *comb) reset() {
	core.Zero(c.backing)
	c.index = 0
	c.store = 0
}

type allpass struct {
	backing  []float64
	buffer   []float64
	index    int
	feedback float64
}

func newAllpass(capacity int) allpass {
	b := make([]float64, capacity)
	return allpass{backing: b, buffer: b, feedback: 0.5}
}

func (a *allpass) setLength(n int) {
	n = max(1, min(n, len(a.backing)))
	a.buffer = a.backing[:n]
	if a.index >= n {
		a.index = 0
	}
}

func (a *allpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := bufOut - input
	a.buffer[a.index] = input + bufOut*a.feedback
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return output
}

func (a *allpass) reset() {
	core.Zero(a.backing)
	a.index = 0
}
