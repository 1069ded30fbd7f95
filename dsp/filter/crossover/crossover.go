package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/filter/biquad"
)

// Crossover splits a signal into LR4 low and high bands. It is not safe for
// concurrent use, and an instance should be driven through only one of
// ProcessSample or Complement since both advance the lowpass state.
type Crossover struct {
	lp   [2]*biquad.Filter
	hp   [2]*biquad.Filter
	freq float64
	sr   float64
}

// New creates a crossover at freq Hz. The frequency is clamped into the
// range a biquad can realize at sampleRate.
func New(freq, sampleRate float64) (*Crossover, error) {
	if err := core.ValidateSampleRate("crossover", sampleRate); err != nil {
		return nil, err
	}
	if !core.IsFinite(freq) || freq <= 0 {
		return nil, fmt.Errorf("crossover: frequency must be positive and finite, got %v", freq)
	}

	c := &Crossover{sr: sampleRate}
	for i := range c.lp {
		c.lp[i] = biquad.New(sampleRate, biquad.Lowpass, freq, 0, biquad.ButterworthQ)
		c.hp[i] = biquad.New(sampleRate, biquad.Highpass, freq, 0, biquad.ButterworthQ)
	}
	c.freq = c.lp[0].Frequency()

	return c, nil
}

// SetFreq retunes all sections. Filter state is kept so retuning while
// running does not click. Non-finite or non-positive values are ignored.
func (c *Crossover) SetFreq(freq float64) {
	if !core.IsFinite(freq) || freq <= 0 {
		return
	}
	for i := range c.lp {
		c.lp[i].Configure(biquad.Lowpass, freq, 0, biquad.ButterworthQ)
		c.hp[i].Configure(biquad.Highpass, freq, 0, biquad.ButterworthQ)
	}
	c.freq = c.lp[0].Frequency()
}

// ProcessSample filters one input sample and returns the lowpass and
// highpass outputs. Their sum is allpass (flat magnitude response).
func (c *Crossover) ProcessSample(x float64) (lo, hi float64) {
	lo = c.lp[1].ProcessSample(c.lp[0].ProcessSample(x))
	hi = c.hp[1].ProcessSample(c.hp[0].ProcessSample(x))
	return lo, hi
}

// Complement filters one input sample and returns the lowpass output and
// its complement. lo + hi == x.
func (c *Crossover) Complement(x float64) (lo, hi float64) {
	lo = c.lp[1].ProcessSample(c.lp[0].ProcessSample(x))
	return lo, x - lo
}

// LowMagnitudeDB returns the lowpass magnitude response at freq.
func (c *Crossover) LowMagnitudeDB(freq float64) float64 {
	return c.lp[0].MagnitudeDB(freq) + c.lp[1].MagnitudeDB(freq)
}

// HighMagnitudeDB returns the highpass magnitude response at freq.
func (c *Crossover) HighMagnitudeDB(freq float64) float64 {
	return c.hp[0].MagnitudeDB(freq) + c.hp[1].MagnitudeDB(freq)
}

// Freq returns the effective crossover frequency in Hz.
func (c *Crossover) Freq() float64 { return c.freq }

// SampleRate returns the sample rate in Hz.
func (c *Crossover) SampleRate() float64 { return c.sr }

// Reset clears the filter state.
func (c *Crossover) Reset() {
	for i := range c.lp {
		c.lp[i].Reset()
		c.hp[i].Reset()
	}
}
