package dynamics

import "github.com/cwbudde/algo-mastering/dsp/core"

const (
	gateHysteresisDB = 3.0

	gateDetectorAttackMs  = 0.1
	gateDetectorReleaseMs = 20.0

	minGateThresholdDB = -96.0
	maxGateThresholdDB = 0.0
	minGateRangeDB     = -96.0
	minGateAttackMs    = 0.01
	maxGateAttackMs    = 500.0
	minGateReleaseMs   = 1.0
	maxGateReleaseMs   = 5000.0
)

// GateConfig holds the noise gate parameters.
type GateConfig struct {
	ThresholdDB float64 `yaml:"threshold_db"`
	// RangeDB is the closed-state attenuation (≤ 0). 0 disables the gate.
	RangeDB   float64 `yaml:"range_db"`
	AttackMs  float64 `yaml:"attack_ms"`
	ReleaseMs float64 `yaml:"release_ms"`
}

// DefaultGateConfig returns a gate suited to removing low-level hiss.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		ThresholdDB: -60,
		RangeDB:     -40,
		AttackMs:    1,
		ReleaseMs:   100,
	}
}

// Normalize clamps every field into its valid range, keeping fallback
// values for non-finite fields. A positive range is read as attenuation.
func (c GateConfig) Normalize(fallback GateConfig) GateConfig {
	rangeDB := c.RangeDB
	if rangeDB > 0 {
		rangeDB = -rangeDB
	}

	return GateConfig{
		ThresholdDB: core.ClampFinite(c.ThresholdDB, minGateThresholdDB, maxGateThresholdDB, fallback.ThresholdDB),
		RangeDB:     core.ClampFinite(rangeDB, minGateRangeDB, 0, fallback.RangeDB),
		AttackMs:    core.ClampFinite(c.AttackMs, minGateAttackMs, maxGateAttackMs, fallback.AttackMs),
		ReleaseMs:   core.ClampFinite(c.ReleaseMs, minGateReleaseMs, maxGateReleaseMs, fallback.ReleaseMs),
	}
}

// Gate is a noise gate with hysteresis.
//
// A peak follower drives the open/closed decision: the gate opens when the
// envelope rises above the threshold and closes only once it drops 3 dB
// below it. The closed state attenuates by the range instead of muting, and
// the gain moves between states with the attack (opening) and release
// (closing) times. Stereo detection is linked.
type Gate struct {
	sampleRate float64
	cfg        GateConfig

	openLevel  float64
	closeLevel float64
	floor      float64

	openCoeff  float64
	closeCoeff float64

	detector follower
	open     bool
	gain     float64
}

// NewGate creates a noise gate in the closed state.
func NewGate(sampleRate float64, cfg GateConfig) (*Gate, error) {
	if err := core.ValidateSampleRate("gate", sampleRate); err != nil {
		return nil, err
	}

	g := &Gate{
		sampleRate: sampleRate,
		cfg:        DefaultGateConfig(),
		detector:   newFollower(gateDetectorAttackMs, gateDetectorReleaseMs, sampleRate),
	}
	g.SetConfig(cfg)
	g.Reset()

	return g, nil
}

// SetConfig applies new parameters.
func (g *Gate) SetConfig(cfg GateConfig) {
	g.cfg = cfg.Normalize(g.cfg)
	g.openLevel = core.DBToLinear(g.cfg.ThresholdDB)
	g.closeLevel = core.DBToLinear(g.cfg.ThresholdDB - gateHysteresisDB)
	g.floor = core.DBToLinear(g.cfg.RangeDB)
	g.openCoeff = core.TimeCoeff(g.cfg.AttackMs, g.sampleRate)
	g.closeCoeff = core.TimeCoeff(g.cfg.ReleaseMs, g.sampleRate)
}

// Config returns the effective (clamped) configuration.
func (g *Gate) Config() GateConfig { return g.cfg }

// IsOpen reports the current gate state.
func (g *Gate) IsOpen() bool { return g.open }

// GainReductionDB returns the current gate gain in dB (≤ 0).
func (g *Gate) GainReductionDB() float64 { return core.LinearToDB(g.gain) }

// Reset closes the gate and clears the detector.
func (g *Gate) Reset() {
	g.detector.reset()
	g.open = false
	g.gain = g.floor
}

// Process gates a mono buffer in place.
func (g *Gate) Process(buf []float32) {
	for i, s := range buf {
		x := float64(s)
		buf[i] = float32(x * g.step(abs64(x)))
	}
}

// ProcessStereo gates left and right in place with linked detection.
func (g *Gate) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		gain := g.step(absMax(left[i], right[i]))
		left[i] = float32(float64(left[i]) * gain)
		right[i] = float32(float64(right[i]) * gain)
	}
}

func (g *Gate) step(peak float64) float64 {
	env := g.detector.process(peak)

	if g.open {
		if env < g.closeLevel {
			g.open = false
		}
	} else if env > g.openLevel {
		g.open = true
	}

	if g.open {
		g.gain += (1 - g.gain) * g.openCoeff
	} else {
		g.gain += (g.floor - g.gain) * g.closeCoeff
	}

	return g.gain
}
