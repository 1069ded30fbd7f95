// Package delay provides the circular delay line used by the time-based
// effects.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/interp"
)

// Line is a circular delay line. Reads address samples by their age:
// delay 1 is the most recent write.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// ForDuration returns a line long enough for maxMs milliseconds at
// sampleRate, plus interpolation guard samples.
func ForDuration(maxMs, sampleRate float64) (*Line, error) {
	if err := core.ValidateSampleRate("delay", sampleRate); err != nil {
		return nil, err
	}
	if !core.IsFinite(maxMs) || maxMs <= 0 {
		return nil, fmt.Errorf("delay: duration must be > 0: %v", maxMs)
	}
	return New(int(math.Ceil(maxMs/1000*sampleRate)) + 4)
}

// Len returns the buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the longest fractional delay ReadFractional honors.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 3)
}

// Write writes one sample. Non-finite samples are stored as 0.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = core.SanitizeSample(sample)
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay%size + size) % size
	return d.buffer[readPos]
}

// ReadFractional reads with cubic Hermite interpolation. delay is clamped
// into [1, MaxDelay()].
func (d *Line) ReadFractional(delay float64) float64 {
	if !(delay >= 1) {
		delay = 1
	}
	if maxDelay := d.MaxDelay(); delay > maxDelay {
		delay = maxDelay
	}

	p := int(delay)
	t := delay - float64(p)

	xm1 := d.Read(max(1, p-1))
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Reset clears line state.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
}
