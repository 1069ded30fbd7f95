package dynamics

import "github.com/cwbudde/algo-mastering/dsp/core"

const (
	transientFastAttackMs  = 0.5
	transientFastReleaseMs = 5.0
	transientSlowAttackMs  = 50.0
	transientSlowReleaseMs = 500.0
)

// TransientConfig holds the transient shaper parameters, both in [-1, 1].
type TransientConfig struct {
	Attack  float64 `yaml:"attack"`
	Sustain float64 `yaml:"sustain"`
}

// Normalize clamps both fields into [-1, 1], keeping fallback values for
// non-finite fields.
func (c TransientConfig) Normalize(fallback TransientConfig) TransientConfig {
	return TransientConfig{
		Attack:  core.ClampFinite(c.Attack, -1, 1, fallback.Attack),
		Sustain: core.ClampFinite(c.Sustain, -1, 1, fallback.Sustain),
	}
}

// TransientShaper emphasizes or softens attacks and sustain independently.
//
// A fast follower (0.5 / 5 ms) and a slow follower (50 / 500 ms) run on the
// rectified input. Their positive difference is the transient component,
// the slow envelope is the sustain component, and the applied gain is
// (1 + attack·transient·2)·(1 + sustain·slow), never below zero.
type TransientShaper struct {
	cfg  TransientConfig
	fast follower
	slow follower
}

// NewTransientShaper creates a transient shaper.
func NewTransientShaper(sampleRate float64, cfg TransientConfig) (*TransientShaper, error) {
	if err := core.ValidateSampleRate("transient shaper", sampleRate); err != nil {
		return nil, err
	}

	t := &TransientShaper{
		fast: newFollower(transientFastAttackMs, transientFastReleaseMs, sampleRate),
		slow: newFollower(transientSlowAttackMs, transientSlowReleaseMs, sampleRate),
	}
	t.SetConfig(cfg)

	return t, nil
}

// SetConfig applies new parameters.
func (t *TransientShaper) SetConfig(cfg TransientConfig) { t.cfg = cfg.Normalize(t.cfg) }

// Config returns the effective (clamped) configuration.
func (t *TransientShaper) Config() TransientConfig { return t.cfg }

// Reset clears both envelopes.
func (t *TransientShaper) Reset() {
	t.fast.reset()
	t.slow.reset()
}

// Process shapes a mono buffer in place.
func (t *TransientShaper) Process(buf []float32) {
	for i, s := range buf {
		x := float64(s)
		buf[i] = float32(x * t.step(abs64(x)))
	}
}

// ProcessStereo shapes left and right in place with linked detection.
func (t *TransientShaper) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		g := t.step(absMax(left[i], right[i]))
		left[i] = float32(float64(left[i]) * g)
		right[i] = float32(float64(right[i]) * g)
	}
}

func (t *TransientShaper) step(level float64) float64 {
	fast := t.fast.process(level)
	slow := t.slow.process(level)

	transient := fast - slow
	if transient < 0 {
		transient = 0
	}

	gain := (1 + t.cfg.Attack*transient*2) * (1 + slow*t.cfg.Sustain)
	if gain < 0 {
		return 0
	}
	return gain
}
