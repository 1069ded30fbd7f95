package dynamics

import (
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

const (
	dynamicEQAttackMs  = 5.0
	dynamicEQReleaseMs = 100.0
)

// DynamicEQBand configures one dynamic band.
type DynamicEQBand struct {
	FrequencyHz float64 `yaml:"frequency_hz"`
	Q           float64 `yaml:"q"`
	ThresholdDB float64 `yaml:"threshold_db"`
	Ratio       float64 `yaml:"ratio"`
	Enabled     bool    `yaml:"enabled"`
}

// DynamicEQConfig lists the dynamic bands.
type DynamicEQConfig struct {
	Bands []DynamicEQBand `yaml:"bands"`
}

// Normalize clamps every band into its valid range. NaN fields fall back to
// the defaults of a 1 kHz band.
func (c DynamicEQConfig) Normalize() DynamicEQConfig {
	out := DynamicEQConfig{Bands: make([]DynamicEQBand, len(c.Bands))}
	for i, b := range c.Bands {
		out.Bands[i] = DynamicEQBand{
			FrequencyHz: core.ClampFinite(b.FrequencyHz, 20, 20000, 1000),
			Q:           core.ClampFinite(b.Q, 0.1, 20, 1),
			ThresholdDB: core.ClampFinite(b.ThresholdDB, -80, 0, -24),
			Ratio:       core.ClampFinite(b.Ratio, 1, 20, 2),
			Enabled:     b.Enabled,
		}
	}
	return out
}

type dynamicBand struct {
	cfg       DynamicEQBand
	threshold float64
	exponent  float64

	detector [2]bandIsolator
	env      [2]follower
}

// DynamicEQ applies level-dependent downward correction to a set of bands.
//
// Each band isolates its range with a peaking detector and tracks it with a
// 5 ms / 100 ms follower. Above the threshold the band is scaled by
// 1/(env/thr)^((ratio-1)/ratio) and only the difference to the unscaled
// band is added to the dry sample. Channels are detected independently.
type DynamicEQ struct {
	sampleRate float64
	bands      []dynamicBand
}

// NewDynamicEQ creates a dynamic EQ.
func NewDynamicEQ(sampleRate float64, cfg DynamicEQConfig) (*DynamicEQ, error) {
	if err := core.ValidateSampleRate("dynamic eq", sampleRate); err != nil {
		return nil, err
	}

	d := &DynamicEQ{sampleRate: sampleRate}
	d.SetConfig(cfg)

	return d, nil
}

// SetConfig replaces the band list. Bands that keep their index keep their
// detector and envelope state.
func (d *DynamicEQ) SetConfig(cfg DynamicEQConfig) {
	cfg = cfg.Normalize()

	if len(cfg.Bands) < len(d.bands) {
		d.bands = d.bands[:len(cfg.Bands)]
	}

	for i, b := range cfg.Bands {
		if i >= len(d.bands) {
			band := dynamicBand{}
			for ch := range band.detector {
				band.detector[ch] = newBandIsolator(d.sampleRate, b.FrequencyHz, b.Q)
				band.env[ch] = newFollower(dynamicEQAttackMs, dynamicEQReleaseMs, d.sampleRate)
			}
			d.bands = append(d.bands, band)
		}

		band := &d.bands[i]
		band.cfg = b
		band.threshold = core.DBToLinear(b.ThresholdDB)
		band.exponent = (b.Ratio - 1) / b.Ratio
		for ch := range band.detector {
			band.detector[ch].configure(b.FrequencyHz, b.Q)
		}
	}
}

// Config returns the effective (clamped) configuration.
func (d *DynamicEQ) Config() DynamicEQConfig {
	out := DynamicEQConfig{Bands: make([]DynamicEQBand, len(d.bands))}
	for i := range d.bands {
		out.Bands[i] = d.bands[i].cfg
	}
	return out
}

// Reset clears every detector and envelope.
func (d *DynamicEQ) Reset() {
	for i := range d.bands {
		for ch := range d.bands[i].detector {
			d.bands[i].detector[ch].reset()
			d.bands[i].env[ch].reset()
		}
	}
}

// Process applies the dynamic bands to a mono buffer in place.
func (d *DynamicEQ) Process(buf []float32) {
	d.processChannel(buf, 0)
}

// ProcessStereo applies the dynamic bands to each channel in place.
func (d *DynamicEQ) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	d.processChannel(left[:n], 0)
	d.processChannel(right[:n], 1)
}

func (d *DynamicEQ) processChannel(buf []float32, ch int) {
	for i, s := range buf {
		x := float64(s)
		delta := 0.0

		for b := range d.bands {
			band := &d.bands[b]
			if !band.cfg.Enabled {
				continue
			}

			sig := band.detector[ch].process(x)
			env := band.env[ch].process(abs64(sig))

			if env > band.threshold && band.exponent > 0 {
				gain := 1 / math.Pow(env/band.threshold, band.exponent)
				delta += sig*gain - sig
			}
		}

		buf[i] = float32(x + delta)
	}
}
