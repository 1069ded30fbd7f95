package meter

import (
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

// DefaultNormalizeTarget is the peak NormalizePeak aims for by default.
const DefaultNormalizeTarget = 0.98

// Levels summarizes a block or stream of samples.
type Levels struct {
	Samples int
	Peak    float64
	PeakDB  float64
	RMS     float64
	RMSDB   float64
	DC      float64
	// CrestDB is the peak to RMS ratio in dB (0 when RMS is zero).
	CrestDB float64
	// Clipped counts samples with |x| >= 1.
	Clipped int
	// NonFinite counts NaN and ±Inf samples, which are otherwise ignored.
	NonFinite int
}

func ampToDB(v float64) float64 {
	a := math.Abs(v)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

func emptyLevels() Levels {
	return Levels{PeakDB: math.Inf(-1), RMSDB: math.Inf(-1)}
}

// Measure returns the levels of one or more channels taken together.
func Measure(channels ...[]float32) Levels {
	var m Meter
	for _, ch := range channels {
		m.Update(ch)
	}
	return m.Result()
}

// Meter accumulates levels across blocks. The zero value is ready to use.
type Meter struct {
	n         int
	nonFinite int
	clipped   int
	sum       float64
	sumSq     float64
	peak      float64
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float32) {
	for _, v := range samples {
		x := float64(v)
		if !core.IsFinite(x) {
			m.nonFinite++
			continue
		}
		m.n++
		m.sum += x
		m.sumSq += x * x
		a := math.Abs(x)
		if a > m.peak {
			m.peak = a
		}
		if a >= 1 {
			m.clipped++
		}
	}
}

// UpdateStereo adds a block of frames from two channels.
func (m *Meter) UpdateStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	m.Update(left[:n])
	m.Update(right[:n])
}

// Result returns the levels accumulated so far.
func (m *Meter) Result() Levels {
	if m.n == 0 {
		out := emptyLevels()
		out.NonFinite = m.nonFinite
		return out
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)
	crest := 0.0
	if rms > 0 {
		crest = 20 * math.Log10(m.peak/rms)
	}

	return Levels{
		Samples:   m.n,
		Peak:      m.peak,
		PeakDB:    ampToDB(m.peak),
		RMS:       rms,
		RMSDB:     ampToDB(rms),
		DC:        m.sum / nf,
		CrestDB:   crest,
		Clipped:   m.clipped,
		NonFinite: m.nonFinite,
	}
}

// Reset clears the accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}

// NormalizePeak scales all channels by one gain so their joint peak equals
// target, and returns that gain. Silent input is left untouched (gain 1).
// Non-finite or non-positive targets fall back to DefaultNormalizeTarget.
func NormalizePeak(target float64, channels ...[]float32) float64 {
	if !core.IsFinite(target) || target <= 0 {
		target = DefaultNormalizeTarget
	}

	peak := Measure(channels...).Peak
	if peak == 0 {
		return 1
	}

	gain := target / peak
	for _, ch := range channels {
		for i, v := range ch {
			ch[i] = float32(core.SanitizeSample(float64(v) * gain))
		}
	}
	return gain
}
