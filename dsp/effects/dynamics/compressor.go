package dynamics

import (
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

const (
	compressorRMSWindowMs = 10.0

	minCompressorRatio     = 1.0
	maxCompressorRatio     = 100.0
	minCompressorThreshold = -96.0
	maxCompressorThreshold = 0.0
	minCompressorKneeDB    = 0.0
	maxCompressorKneeDB    = 24.0
	minCompressorAttackMs  = 0.01
	maxCompressorAttackMs  = 1000.0
	minCompressorReleaseMs = 1.0
	maxCompressorReleaseMs = 5000.0
	maxCompressorMakeupDB  = 24.0
)

// CompressorConfig holds the compressor parameters.
type CompressorConfig struct {
	ThresholdDB float64 `yaml:"threshold_db"`
	Ratio       float64 `yaml:"ratio"`
	KneeDB      float64 `yaml:"knee_db"`
	AttackMs    float64 `yaml:"attack_ms"`
	ReleaseMs   float64 `yaml:"release_ms"`
	MakeupDB    float64 `yaml:"makeup_db"`
}

// DefaultCompressorConfig returns a gentle bus-compression setting.
func DefaultCompressorConfig() CompressorConfig {
	return CompressorConfig{
		ThresholdDB: -18,
		Ratio:       4,
		KneeDB:      6,
		AttackMs:    10,
		ReleaseMs:   100,
		MakeupDB:    0,
	}
}

// Normalize clamps every field into its valid range, keeping fallback
// values for non-finite fields.
func (c CompressorConfig) Normalize(fallback CompressorConfig) CompressorConfig {
	return CompressorConfig{
		ThresholdDB: core.ClampFinite(c.ThresholdDB, minCompressorThreshold, maxCompressorThreshold, fallback.ThresholdDB),
		Ratio:       core.ClampFinite(c.Ratio, minCompressorRatio, maxCompressorRatio, fallback.Ratio),
		KneeDB:      core.ClampFinite(c.KneeDB, minCompressorKneeDB, maxCompressorKneeDB, fallback.KneeDB),
		AttackMs:    core.ClampFinite(c.AttackMs, minCompressorAttackMs, maxCompressorAttackMs, fallback.AttackMs),
		ReleaseMs:   core.ClampFinite(c.ReleaseMs, minCompressorReleaseMs, maxCompressorReleaseMs, fallback.ReleaseMs),
		MakeupDB:    core.ClampFinite(c.MakeupDB, -maxCompressorMakeupDB, maxCompressorMakeupDB, fallback.MakeupDB),
	}
}

// Compressor is a transparent RMS compressor.
//
// Level is measured over a 10 ms sliding RMS window. The soft-knee gain
// computer yields a reduction in dB which is converted to a linear gain and
// then smoothed with separate attack and release coefficients, so parameter
// changes and level jumps never produce gain discontinuities.
//
// In stereo the detector is fed max(|L|, |R|) and one gain is applied to
// both channels.
type Compressor struct {
	sampleRate float64
	cfg        CompressorConfig

	slope        float64
	makeupLin    float64
	attackCoeff  float64
	releaseCoeff float64

	rms      []float64
	rmsIndex int
	rmsSum   float64

	gain float64
}

// NewCompressor creates a compressor. Config fields are clamped into range.
func NewCompressor(sampleRate float64, cfg CompressorConfig) (*Compressor, error) {
	if err := core.ValidateSampleRate("compressor", sampleRate); err != nil {
		return nil, err
	}

	window := max(int(math.Round(compressorRMSWindowMs*0.001*sampleRate)), 1)

	c := &Compressor{
		sampleRate: sampleRate,
		cfg:        DefaultCompressorConfig(),
		rms:        make([]float64, window),
		gain:       1,
	}
	c.SetConfig(cfg)

	return c, nil
}

// SetConfig applies new parameters without touching detector or gain state.
func (c *Compressor) SetConfig(cfg CompressorConfig) {
	c.cfg = cfg.Normalize(c.cfg)
	c.slope = 1 - 1/c.cfg.Ratio
	c.makeupLin = core.DBToLinear(c.cfg.MakeupDB)
	c.attackCoeff = core.TimeCoeff(c.cfg.AttackMs, c.sampleRate)
	c.releaseCoeff = core.TimeCoeff(c.cfg.ReleaseMs, c.sampleRate)
}

// Config returns the effective (clamped) configuration.
func (c *Compressor) Config() CompressorConfig { return c.cfg }

// SampleRate returns the sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// GainReductionDB returns the current smoothed gain in dB (≤ 0).
func (c *Compressor) GainReductionDB() float64 { return core.LinearToDB(c.gain) }

// Reset clears the RMS window and returns the gain to unity.
func (c *Compressor) Reset() {
	core.Zero(c.rms)
	c.rmsIndex = 0
	c.rmsSum = 0
	c.gain = 1
}

// Process compresses a mono buffer in place.
func (c *Compressor) Process(buf []float32) {
	for i, s := range buf {
		x := float64(s)
		g := c.step(abs64(x))
		buf[i] = float32(x * g)
	}
}

// ProcessStereo compresses left and right in place with linked detection.
func (c *Compressor) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		g := c.step(absMax(left[i], right[i]))
		left[i] = float32(float64(left[i]) * g)
		right[i] = float32(float64(right[i]) * g)
	}
}

// GainComputerDB returns the static gain change in dB for a detector level
// in dBFS: 0 below the knee, -(excess)*(1-1/ratio) above it and a quadratic
// blend inside.
func (c *Compressor) GainComputerDB(levelDB float64) float64 {
	over := levelDB - c.cfg.ThresholdDB
	knee := c.cfg.KneeDB
	half := knee / 2

	switch {
	case over <= -half:
		return 0
	case knee > 0 && over < half:
		x := over + half
		return -c.slope * x * x / (2 * knee)
	default:
		return -c.slope * over
	}
}

// step advances the detector by one sample and returns the total linear
// gain (including makeup) for that sample.
func (c *Compressor) step(detector float64) float64 {
	level := c.updateRMS(detector)

	target := 1.0
	if c.slope > 0 {
		if reduction := c.GainComputerDB(core.LinearToDB(level)); reduction < 0 {
			target = core.DBToLinear(reduction)
		}
	}

	if target < c.gain {
		c.gain += (target - c.gain) * c.attackCoeff
	} else {
		c.gain += (target - c.gain) * c.releaseCoeff
	}

	return c.gain * c.makeupLin
}

func (c *Compressor) updateRMS(x float64) float64 {
	sq := x * x
	c.rmsSum += sq - c.rms[c.rmsIndex]
	c.rms[c.rmsIndex] = sq

	c.rmsIndex++
	if c.rmsIndex >= len(c.rms) {
		c.rmsIndex = 0
		// Re-sum once per window so rounding drift cannot accumulate.
		sum := 0.0
		for _, v := range c.rms {
			sum += v
		}
		c.rmsSum = sum
	}

	if c.rmsSum <= 0 {
		return 0
	}

	return math.Sqrt(c.rmsSum / float64(len(c.rms)))
}
