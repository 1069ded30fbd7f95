package reverb

import (
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

const (
	numCombs     = 8
	numAllpasses = 4

	// Freeverb tunings at 44.1 kHz.
	tuningSampleRate = 44100.0
	stereoSpread     = 23

	minSizeScale = 0.5
	maxSizeScale = 1.5

	minCombFeedback   = 0.7
	combFeedbackRange = 0.2
	maxCombFeedback   = 0.98

	lfoRateHz = 0.5
	lfoDepth  = 0.02

	// Wet level trim after averaging the combs.
	wetTrim = 0.5
)

var (
	combTuning    = [numCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTuning = [numAllpasses]int{556, 441, 341, 225}
)

// Config holds the reverb parameters, each in [0, 1].
type Config struct {
	Size    float64 `yaml:"size"`
	Damping float64 `yaml:"damping"`
	Mix     float64 `yaml:"mix"`
}

// DefaultConfig returns a medium room at 20 % wet.
func DefaultConfig() Config {
	return Config{Size: 0.5, Damping: 0.5, Mix: 0.2}
}

// Normalize clamps every field into [0, 1], keeping fallback values for
// non-finite fields.
func (c Config) Normalize(fallback Config) Config {
	return Config{
		Size:    core.ClampFinite(c.Size, 0, 1, fallback.Size),
		Damping: core.ClampFinite(c.Damping, 0, 1, fallback.Damping),
		Mix:     core.ClampFinite(c.Mix, 0, 1, fallback.Mix),
	}
}

// MotionReverb is a modulated Freeverb-style reverb.
//
// Comb lengths follow the Freeverb ratios scaled by Size (0.5x to 1.5x) and
// by the sample rate. Comb feedback is 0.7 + 0.2·Size and each comb damps
// its loop with a one-pole low-pass. Comb outputs are averaged and diffused
// by four series all-passes. A 0.5 Hz LFO modulates the wet gain by ±2 %.
//
// In stereo the left channel feeds combs 0-3 and the right channel combs
// 4-7, each through its own all-pass set (the right set offset by the
// Freeverb stereo spread), and the right channel's LFO is inverted.
type MotionReverb struct {
	sampleRate float64
	cfg        Config

	combs        [numCombs]comb
	allpassL     [numAllpasses]allpass
	allpassR     [numAllpasses]allpass
	lfoPhase     float64
	lfoIncrement float64
}

// NewMotionReverb creates a reverb. All lines are sized for the largest room so size
// changes never allocate.
func NewMotionReverb(sampleRate float64, cfg Config) (*MotionReverb, error) {
	if err := core.ValidateSampleRate("reverb", sampleRate); err != nil {
		return nil, err
	}

	rateScale := sampleRate / tuningSampleRate
	r := &MotionReverb{
		sampleRate:   sampleRate,
		cfg:          DefaultConfig(),
		lfoIncrement: 2 * math.Pi * lfoRateHz / sampleRate,
	}

	for i, n := range combTuning {
		r.combs[i] = newComb(scaledLength(n, maxSizeScale*rateScale))
	}
	for i, n := range allpassTuning {
		r.allpassL[i] = newAllpass(scaledLength(n, rateScale))
		r.allpassR[i] = newAllpass(scaledLength(n+stereoSpread, rateScale))
	}

	r.SetConfig(cfg)

	return r, nil
}

func scaledLength(n int, scale float64) int {
	return max(1, int(math.Round(float64(n)*scale)))
}

// SetConfig applies new parameters. Changing Size re-slices the comb lines
// in place without clearing them.
func (r *MotionReverb) SetConfig(cfg Config) {
	r.cfg = cfg.Normalize(r.cfg)

	sizeScale := minSizeScale + r.cfg.Size*(maxSizeScale-minSizeScale)
	rateScale := r.sampleRate / tuningSampleRate
	feedback := math.Min(minCombFeedback+combFeedbackRange*r.cfg.Size, maxCombFeedback)
	damp := r.cfg.Damping * 0.99

	for i := range r.combs {
		r.combs[i].setLength(scaledLength(combTuning[i], sizeScale*rateScale))
		r.combs[i].feedback = feedback
		r.combs[i].setDamp(damp)
	}
}

// Config returns the effective configuration.
func (r *MotionReverb) Config() Config { return r.cfg }

// CombFeedback returns the current comb feedback coefficient.
func (r *MotionReverb) CombFeedback() float64 { return r.combs[0].feedback }

// Reset clears every line and restarts the LFO.
func (r *MotionReverb) Reset() {
	for i := range r.combs {
		r.combs[i].reset()
	}
	for i := range r.allpassL {
		r.allpassL[i].reset()
		r.allpassR[i].reset()
	}
	r.lfoPhase = 0
}

// Process reverberates a mono buffer in place through all eight combs.
func (r *MotionReverb) Process(buf []float32) {
	mix := r.cfg.Mix
	for i, v := range buf {
		x := float64(v)

		acc := 0.0
		for c := range r.combs {
			acc += r.combs[c].process(x)
		}
		wet := r.diffuse(&r.allpassL, acc/numCombs*wetTrim)
		if !core.IsFinite(wet) {
			r.Reset()
			wet = 0
		}

		mod := 1 + lfoDepth*math.Sin(r.lfoPhase)
		r.advanceLFO()

		buf[i] = float32(core.SanitizeSample(x*(1-mix) + wet*mix*mod))
	}
}

// ProcessStereo reverberates left and right in place with decorrelated
// comb halves.
func (r *MotionReverb) ProcessStereo(left, right []float32) {
	const half = numCombs / 2

	mix := r.cfg.Mix
	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		l, rr := float64(left[i]), float64(right[i])

		var accL, accR float64
		for c := 0; c < half; c++ {
			accL += r.combs[c].process(l)
			accR += r.combs[c+half].process(rr)
		}
		wetL := r.diffuse(&r.allpassL, accL/half*wetTrim)
		wetR := r.diffuse(&r.allpassR, accR/half*wetTrim)
		if !core.IsFinite(wetL) || !core.IsFinite(wetR) {
			r.Reset()
			wetL, wetR = 0, 0
		}

		lfo := lfoDepth * math.Sin(r.lfoPhase)
		r.advanceLFO()

		left[i] = float32(core.SanitizeSample(l*(1-mix) + wetL*mix*(1+lfo)))
		right[i] = float32(core.SanitizeSample(rr*(1-mix) + wetR*mix*(1-lfo)))
	}
}

func (r *MotionReverb) diffuse(set *[numAllpasses]allpass, x float64) float64 {
	for i := range set {
		x = set[i].process(x)
	}
	return x
}

func (r *MotionReverb) advanceLFO() {
	r.lfoPhase += r.lfoIncrement
	if r.lfoPhase >= 2*math.Pi {
		r.lfoPhase -= 2 * math.Pi
	}
}
