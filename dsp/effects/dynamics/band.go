package dynamics

import (
	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/filter/biquad"
)

// detectorBoostDB is the gain of the peaking section used for band
// isolation. Any non-zero value works; the difference is rescaled.
const detectorBoostDB = 12.0

// bandIsolator extracts a band-pass signal from a peaking biquad.
//
// A peaking section computes x + (A²-1)·bp(x), where bp has unity gain at
// the center frequency. Subtracting x and dividing by (A²-1) leaves bp(x).
type bandIsolator struct {
	peak  *biquad.Filter
	scale float64
}

func newBandIsolator(sampleRate, freq, q float64) bandIsolator {
	return bandIsolator{
		peak:  biquad.New(sampleRate, biquad.Peaking, freq, detectorBoostDB, q),
		scale: 1 / (core.DBToLinear(detectorBoostDB) - 1),
	}
}

func (b *bandIsolator) configure(freq, q float64) {
	b.peak.Configure(biquad.Peaking, freq, detectorBoostDB, q)
}

func (b *bandIsolator) process(x float64) float64 {
	return (b.peak.ProcessSample(x) - x) * b.scale
}

func (b *bandIsolator) reset() {
	b.peak.Reset()
}
