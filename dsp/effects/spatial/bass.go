package spatial

import (
	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/filter/crossover"
)

// BassConfig holds the bass management parameters.
type BassConfig struct {
	CrossoverHz float64 `yaml:"crossover_hz"`
}

// DefaultBassConfig returns a 120 Hz mono-bass crossover.
func DefaultBassConfig() BassConfig {
	return BassConfig{CrossoverHz: 120}
}

// Normalize clamps CrossoverHz into [20, 1000] Hz, keeping fallback's value
// when it is not finite.
func (c BassConfig) Normalize(fallback BassConfig) BassConfig {
	return BassConfig{CrossoverHz: core.ClampFinite(c.CrossoverHz, minSplitHz, maxSplitHz, fallback.CrossoverHz)}
}

// BassManager sums the low band of a stereo signal to mono so low end stays
// intact on mono playback systems. The high band stays stereo. Bands are
// split with an LR4 low-pass/high-pass pair, so the output is an
// allpass-phase version of the input with side content removed below the
// crossover.
type BassManager struct {
	cfg BassConfig
	xo  [2]*crossover.Crossover
}

// NewBassManager creates a bass manager.
func NewBassManager(sampleRate float64, cfg BassConfig) (*BassManager, error) {
	b := &BassManager{cfg: DefaultBassConfig()}
	for ch := range b.xo {
		xo, err := crossover.New(b.cfg.CrossoverHz, sampleRate)
		if err != nil {
			return nil, err
		}
		b.xo[ch] = xo
	}
	b.SetConfig(cfg)

	return b, nil
}

// SetConfig applies new parameters.
func (b *BassManager) SetConfig(cfg BassConfig) {
	b.cfg = cfg.Normalize(b.cfg)
	for _, xo := range b.xo {
		xo.SetFreq(b.cfg.CrossoverHz)
	}
}

// Config returns the effective configuration.
func (b *BassManager) Config() BassConfig { return b.cfg }

// Reset clears the crossover state.
func (b *BassManager) Reset() {
	for _, xo := range b.xo {
		xo.Reset()
	}
}

// ProcessStereo processes left and right in place.
func (b *BassManager) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		loL, hiL := b.xo[0].ProcessSample(float64(left[i]))
		loR, hiR := b.xo[1].ProcessSample(float64(right[i]))

		mono := (loL + loR) * 0.5
		left[i] = float32(mono + hiL)
		right[i] = float32(mono + hiR)
	}
}
