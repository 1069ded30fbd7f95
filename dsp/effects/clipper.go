package effects

import (
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

// Thresholds at or above this value clip hard at full scale.
const clipperHardCeiling = 0.999

// ClipperConfig holds the clipper parameters.
type ClipperConfig struct {
	// Threshold is the linear level in [0, 1] above which clipping starts.
	Threshold float64 `yaml:"threshold"`
	// Hardness blends soft (0) and hard (1) clipping.
	Hardness float64 `yaml:"hardness"`
}

// DefaultClipperConfig returns a soft-leaning clipper at 0.95.
func DefaultClipperConfig() ClipperConfig {
	return ClipperConfig{Threshold: 0.95, Hardness: 0.3}
}

// Normalize clamps both fields into [0, 1], keeping fallback values for
// non-finite fields.
func (c ClipperConfig) Normalize(fallback ClipperConfig) ClipperConfig {
	return ClipperConfig{
		Threshold: core.ClampFinite(c.Threshold, 0, 1, fallback.Threshold),
		Hardness:  core.ClampFinite(c.Hardness, 0, 1, fallback.Hardness),
	}
}

// Clipper limits samples above a threshold with a blend of a tanh soft knee
// and a hard clip. Samples at or below the threshold pass unchanged and the
// output never exceeds full scale.
type Clipper struct {
	cfg ClipperConfig
}

// NewClipper creates a clipper.
func NewClipper(cfg ClipperConfig) *Clipper {
	c := &Clipper{cfg: DefaultClipperConfig()}
	c.SetConfig(cfg)
	return c
}

// SetConfig applies new parameters, clamped into range.
func (c *Clipper) SetConfig(cfg ClipperConfig) {
	c.cfg = cfg.Normalize(c.cfg)
}

// Config returns the effective configuration.
func (c *Clipper) Config() ClipperConfig { return c.cfg }

// Reset is a no-op; the clipper has no state.
func (c *Clipper) Reset() {}

// ProcessSample clips one sample.
func (c *Clipper) ProcessSample(x float64) float64 {
	t := c.cfg.Threshold
	if t >= clipperHardCeiling {
		return core.Clamp(core.SanitizeSample(x), -1, 1)
	}

	a := math.Abs(x)
	if a <= t {
		return x
	}
	if math.IsNaN(a) {
		return 0
	}

	span := 1 - t
	soft := t + span*math.Tanh((a-t)/span)
	y := (1-c.cfg.Hardness)*soft + c.cfg.Hardness*t

	return math.Copysign(y, x)
}

// Process clips buf in place.
func (c *Clipper) Process(buf []float32) {
	for i, v := range buf {
		buf[i] = float32(c.ProcessSample(float64(v)))
	}
}
