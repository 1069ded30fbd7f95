package effects

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

// SaturationType selects the waveshaping curve.
type SaturationType string

const (
	// Tube is an asymmetric cubic curve that emphasizes the 2nd harmonic.
	Tube SaturationType = "tube"
	// Tape is a symmetric tanh curve that emphasizes the 3rd harmonic.
	Tape SaturationType = "tape"
	// Transformer is linear up to a knee and tanh-compressed above it.
	Transformer SaturationType = "transformer"
)

const (
	maxSaturationDrive = 10.0
	tubeEvenAmount     = 0.2
	transformerKnee    = 0.6
)

// ErrUnknownSaturationType is returned for saturation names other than
// tube, tape and transformer.
var ErrUnknownSaturationType = errors.New("saturation: unknown type")

// ParseSaturationType maps a name to a SaturationType, case-insensitively.
func ParseSaturationType(name string) (SaturationType, error) {
	switch t := SaturationType(strings.ToLower(strings.TrimSpace(name))); t {
	case Tube, Tape, Transformer:
		return t, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownSaturationType, name)
	}
}

// SaturationConfig holds the saturation parameters.
type SaturationConfig struct {
	Type SaturationType `yaml:"type"`
	// Drive in [0, 1] scales the input gain from 1x to 10x.
	Drive float64 `yaml:"drive"`
	// Mix is the wet proportion in [0, 1].
	Mix float64 `yaml:"mix"`
}

// DefaultSaturationConfig returns gentle tape coloration.
func DefaultSaturationConfig() SaturationConfig {
	return SaturationConfig{Type: Tape, Drive: 0.3, Mix: 0.5}
}

// Normalize clamps Drive and Mix into [0, 1], keeping fallback values for
// non-finite fields. An empty Type takes fallback's; other names are not
// validated here.
func (c SaturationConfig) Normalize(fallback SaturationConfig) SaturationConfig {
	out := SaturationConfig{
		Type:  c.Type,
		Drive: core.ClampFinite(c.Drive, 0, 1, fallback.Drive),
		Mix:   core.ClampFinite(c.Mix, 0, 1, fallback.Mix),
	}
	if out.Type == "" {
		out.Type = fallback.Type
	}
	return out
}

// Saturation is a stateless per-sample waveshaper. Its wet path is bounded
// to [-1, 1] for any input.
type Saturation struct {
	cfg   SaturationConfig
	gain  float64
	shape func(float64) float64
}

// NewSaturation creates a saturation stage. Unknown types return an error.
func NewSaturation(cfg SaturationConfig) (*Saturation, error) {
	s := &Saturation{}
	s.cfg = DefaultSaturationConfig()
	if err := s.SetConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// SetConfig applies new parameters. An unknown type leaves the stage
// unchanged and returns an error; numeric fields are clamped.
func (s *Saturation) SetConfig(cfg SaturationConfig) error {
	cfg = cfg.Normalize(s.cfg)
	t, err := ParseSaturationType(string(cfg.Type))
	if err != nil {
		return err
	}

	cfg.Type = t
	s.cfg = cfg
	s.gain = 1 + s.cfg.Drive*(maxSaturationDrive-1)

	switch t {
	case Tube:
		s.shape = tubeShape
	case Tape:
		s.shape = math.Tanh
	case Transformer:
		s.shape = transformerShape
	}

	return nil
}

// Config returns the effective configuration.
func (s *Saturation) Config() SaturationConfig { return s.cfg }

// Reset is a no-op; the shaper has no state.
func (s *Saturation) Reset() {}

// ProcessSample saturates one sample. Any wet contribution bounds the
// result to [-1, 1], including the dry share of a partial mix.
func (s *Saturation) ProcessSample(x float64) float64 {
	if s.cfg.Mix == 0 {
		return x
	}
	wet := s.shape(s.gain * x)
	return core.Clamp(x*(1-s.cfg.Mix)+wet*s.cfg.Mix, -1, 1)
}

// Process saturates buf in place.
func (s *Saturation) Process(buf []float32) {
	if s.cfg.Mix == 0 {
		return
	}
	for i, v := range buf {
		buf[i] = float32(s.ProcessSample(float64(v)))
	}
}

// tubeShape is the normalized cubic 1.5(c - c³/3) plus a squared term for
// even harmonics. Output lies in [-2/3, 1].
func tubeShape(x float64) float64 {
	c := core.Clamp(x, -1, 1)
	odd := 1.5 * (c - c*c*c/3)
	return (odd + tubeEvenAmount*c*c) / (1 + tubeEvenAmount)
}

func transformerShape(x float64) float64 {
	a := math.Abs(x)
	if a <= transformerKnee {
		return x
	}
	y := transformerKnee + (1-transformerKnee)*math.Tanh((a-transformerKnee)/(1-transformerKnee))
	return math.Copysign(y, x)
}
