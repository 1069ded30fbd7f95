package dynamics

import "github.com/cwbudde/algo-mastering/dsp/core"

const (
	deesserAttackMs  = 0.5
	deesserReleaseMs = 50.0

	minDeesserFreq = 2000.0
	maxDeesserFreq = 16000.0
)

// DeEsserConfig holds the de-esser parameters.
type DeEsserConfig struct {
	FrequencyHz float64 `yaml:"frequency_hz"`
	ThresholdDB float64 `yaml:"threshold_db"`
	// Amount in [0, 1] sets both the ratio (1 + 3·amount) and how much of
	// the computed reduction is applied.
	Amount float64 `yaml:"amount"`
	Q      float64 `yaml:"q"`
}

// DefaultDeEsserConfig returns a 6.5 kHz de-esser at half strength.
func DefaultDeEsserConfig() DeEsserConfig {
	return DeEsserConfig{
		FrequencyHz: 6500,
		ThresholdDB: -30,
		Amount:      0.5,
		Q:           2,
	}
}

// Normalize clamps every field into its valid range, keeping fallback
// values for non-finite fields.
func (c DeEsserConfig) Normalize(fallback DeEsserConfig) DeEsserConfig {
	return DeEsserConfig{
		FrequencyHz: core.ClampFinite(c.FrequencyHz, minDeesserFreq, maxDeesserFreq, fallback.FrequencyHz),
		ThresholdDB: core.ClampFinite(c.ThresholdDB, -80, 0, fallback.ThresholdDB),
		Amount:      core.ClampFinite(c.Amount, 0, 1, fallback.Amount),
		Q:           core.ClampFinite(c.Q, 0.1, 20, fallback.Q),
	}
}

// DeEsser reduces sibilance.
//
// The sibilant band is isolated from a peaking biquad and tracked with a
// fast envelope follower. When the band envelope exceeds the threshold the
// whole signal is ducked by the compressed excess scaled by Amount. Stereo
// detection takes the louder channel's band, and both channels receive the
// same gain.
type DeEsser struct {
	sampleRate float64
	cfg        DeEsserConfig

	threshold float64
	slope     float64

	band [2]bandIsolator
	env  follower
	gain float64
}

// NewDeEsser creates a de-esser.
func NewDeEsser(sampleRate float64, cfg DeEsserConfig) (*DeEsser, error) {
	if err := core.ValidateSampleRate("deesser", sampleRate); err != nil {
		return nil, err
	}

	d := &DeEsser{
		sampleRate: sampleRate,
		cfg:        DefaultDeEsserConfig(),
		env:        newFollower(deesserAttackMs, deesserReleaseMs, sampleRate),
		gain:       1,
	}
	for ch := range d.band {
		d.band[ch] = newBandIsolator(sampleRate, d.cfg.FrequencyHz, d.cfg.Q)
	}
	d.SetConfig(cfg)

	return d, nil
}

// SetConfig applies new parameters.
func (d *DeEsser) SetConfig(cfg DeEsserConfig) {
	d.cfg = cfg.Normalize(d.cfg)
	d.threshold = core.DBToLinear(d.cfg.ThresholdDB)

	ratio := 1 + 3*d.cfg.Amount
	d.slope = 1 - 1/ratio

	for ch := range d.band {
		d.band[ch].configure(d.cfg.FrequencyHz, d.cfg.Q)
	}
}

// Config returns the effective (clamped) configuration.
func (d *DeEsser) Config() DeEsserConfig { return d.cfg }

// GainReductionDB returns the most recent applied gain in dB (≤ 0).
func (d *DeEsser) GainReductionDB() float64 { return core.LinearToDB(d.gain) }

// Reset clears detector filters and envelope.
func (d *DeEsser) Reset() {
	for ch := range d.band {
		d.band[ch].reset()
	}
	d.env.reset()
	d.gain = 1
}

// Process de-esses a mono buffer in place.
func (d *DeEsser) Process(buf []float32) {
	for i, s := range buf {
		x := float64(s)
		g := d.step(abs64(d.band[0].process(x)))
		buf[i] = float32(x * g)
	}
}

// ProcessStereo de-esses left and right in place with linked detection.
func (d *DeEsser) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		l, r := float64(left[i]), float64(right[i])
		bl := abs64(d.band[0].process(l))
		br := abs64(d.band[1].process(r))

		g := d.step(max(bl, br))
		left[i] = float32(l * g)
		right[i] = float32(r * g)
	}
}

func (d *DeEsser) step(level float64) float64 {
	env := d.env.process(level)

	d.gain = 1
	if env > d.threshold && d.slope > 0 {
		overDB := core.LinearToDB(env) - d.cfg.ThresholdDB
		reduced := core.DBToLinear(-overDB * d.slope)
		d.gain = 1 - d.cfg.Amount*(1-reduced)
	}

	return d.gain
}
