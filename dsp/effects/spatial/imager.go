package spatial

import (
	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/filter/crossover"
)

const (
	minImagerWidth = 0.0
	maxImagerWidth = 2.0

	minSplitHz = 20.0
	maxSplitHz = 1000.0

	// Crossover frequency used to build the splitters before a cutoff is set.
	defaultSplitHz = 120.0
)

// ImagerConfig holds the stereo imager parameters.
type ImagerConfig struct {
	// Width scales the side signal: 0 = mono, 1 = unchanged, 2 = extra wide.
	Width float64 `yaml:"width"`
	// LowCutoffHz keeps content below it untouched. 0 processes the full band.
	LowCutoffHz float64 `yaml:"low_cutoff_hz"`
}

// DefaultImagerConfig returns a slight widening above 150 Hz.
func DefaultImagerConfig() ImagerConfig {
	return ImagerConfig{Width: 1.2, LowCutoffHz: 150}
}

// Normalize clamps Width into [0, 2] and a positive LowCutoffHz into
// [20, 1000] Hz; zero or negative cutoffs disable the split. Non-finite
// fields keep fallback's values.
func (c ImagerConfig) Normalize(fallback ImagerConfig) ImagerConfig {
	cutoff := c.LowCutoffHz
	if !core.IsFinite(cutoff) {
		cutoff = fallback.LowCutoffHz
	}
	if cutoff > 0 {
		cutoff = core.Clamp(cutoff, minSplitHz, maxSplitHz)
	} else {
		cutoff = 0
	}
	return ImagerConfig{
		Width:       core.ClampFinite(c.Width, minImagerWidth, maxImagerWidth, fallback.Width),
		LowCutoffHz: cutoff,
	}
}

// StereoImager adjusts stereo width with mid/side processing.
//
// The input is split at LowCutoffHz; the low band passes through untouched
// while the high band is encoded to mid = (L+R)/2 and side = (L-R)/2, the
// side is scaled by Width, and the result is decoded back and recombined.
// It is stereo only, real-time safe and not thread-safe.
type StereoImager struct {
	cfg   ImagerConfig
	split bool
	xo    [2]*crossover.Crossover
}

// NewStereoImager creates a stereo imager.
func NewStereoImager(sampleRate float64, cfg ImagerConfig) (*StereoImager, error) {
	s := &StereoImager{cfg: DefaultImagerConfig()}
	for ch := range s.xo {
		xo, err := crossover.New(defaultSplitHz, sampleRate)
		if err != nil {
			return nil, err
		}
		s.xo[ch] = xo
	}
	s.SetConfig(cfg)

	return s, nil
}

// SetConfig applies new parameters. Enabling the split after it was off
// starts the crossovers from a cleared state.
func (s *StereoImager) SetConfig(cfg ImagerConfig) {
	cfg = cfg.Normalize(s.cfg)

	wasSplit := s.split
	s.split = cfg.LowCutoffHz > 0
	if s.split {
		for _, xo := range s.xo {
			xo.SetFreq(cfg.LowCutoffHz)
			if !wasSplit {
				xo.Reset()
			}
		}
	}

	s.cfg = cfg
}

// Config returns the effective configuration.
func (s *StereoImager) Config() ImagerConfig { return s.cfg }

// Reset clears the crossover state.
func (s *StereoImager) Reset() {
	for _, xo := range s.xo {
		xo.Reset()
	}
}

// ProcessStereo processes left and right in place.
func (s *StereoImager) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	w := s.cfg.Width

	if !s.split {
		for i := 0; i < n; i++ {
			l, r := float64(left[i]), float64(right[i])
			mid := (l + r) * 0.5
			side := (l - r) * 0.5 * w
			left[i] = float32(mid + side)
			right[i] = float32(mid - side)
		}
		return
	}

	for i := 0; i < n; i++ {
		loL, hiL := s.xo[0].Complement(float64(left[i]))
		loR, hiR := s.xo[1].Complement(float64(right[i]))

		mid := (hiL + hiR) * 0.5
		side := (hiL - hiR) * 0.5 * w
		left[i] = float32(loL + mid + side)
		right[i] = float32(loR + mid - side)
	}
}
