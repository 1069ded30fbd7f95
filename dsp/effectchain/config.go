package effectchain

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-mastering/dsp/effects"
	"github.com/cwbudde/algo-mastering/dsp/effects/dynamics"
	"github.com/cwbudde/algo-mastering/dsp/effects/pitch"
	"github.com/cwbudde/algo-mastering/dsp/effects/reverb"
	"github.com/cwbudde/algo-mastering/dsp/effects/spatial"
	"github.com/cwbudde/algo-mastering/dsp/filter/eq"
)

//go:embed presets/default.yaml
var defaultPreset []byte

// Config describes a whole chain. A nil field leaves that stage untouched
// when applied; YAML keys are the stage names.
type Config struct {
	Gate       *dynamics.GateConfig       `yaml:"gate,omitempty"`
	Pitch      *pitch.CorrectorConfig     `yaml:"pitch,omitempty"`
	DeEsser    *dynamics.DeEsserConfig    `yaml:"deesser,omitempty"`
	DynamicEQ  *dynamics.DynamicEQConfig  `yaml:"dynamic_eq,omitempty"`
	EQ         *eq.Config                 `yaml:"eq,omitempty"`
	Parallel   *dynamics.ParallelConfig   `yaml:"parallel,omitempty"`
	Compressor *dynamics.CompressorConfig `yaml:"compressor,omitempty"`
	Saturation *effects.SaturationConfig  `yaml:"saturation,omitempty"`
	Transient  *dynamics.TransientConfig  `yaml:"transient,omitempty"`
	Imager     *spatial.ImagerConfig      `yaml:"imager,omitempty"`
	Delay      *effects.DelayConfig       `yaml:"delay,omitempty"`
	Reverb     *reverb.Config             `yaml:"reverb,omitempty"`
	Bass       *spatial.BassConfig        `yaml:"bass,omitempty"`
	Clipper    *effects.ClipperConfig     `yaml:"clipper,omitempty"`
	Limiter    *dynamics.LimiterConfig    `yaml:"limiter,omitempty"`
}

// DefaultPreset returns the built-in mastering preset.
func DefaultPreset() (Config, error) {
	return ParseConfig(defaultPreset)
}

// LoadConfig reads a YAML preset from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("effectchain: read preset: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("effectchain: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML preset. Fields missing from a stage block take
// that stage's defaults; unknown stage names are errors.
func ParseConfig(data []byte) (Config, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("effectchain: parse preset: %w", err)
	}

	var cfg Config
	for key, node := range raw {
		s, err := ParseStage(key)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.decodeStage(s, &node); err != nil {
			return Config{}, fmt.Errorf("effectchain: stage %s: %w", s, err)
		}
	}
	return cfg, nil
}

func decodeWithDefault[T any](node *yaml.Node, def T) (*T, error) {
	v := def
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

//nolint:cyclop
func (c *Config) decodeStage(s Stage, node *yaml.Node) error {
	var err error
	switch s {
	case StageGate:
		c.Gate, err = decodeWithDefault(node, dynamics.DefaultGateConfig())
	case StagePitch:
		c.Pitch, err = decodeWithDefault(node, pitch.DefaultCorrectorConfig())
	case StageDeEsser:
		c.DeEsser, err = decodeWithDefault(node, dynamics.DefaultDeEsserConfig())
	case StageDynamicEQ:
		c.DynamicEQ, err = decodeWithDefault(node, dynamics.DynamicEQConfig{})
	case StageEQ:
		c.EQ, err = decodeWithDefault(node, eq.Config{})
	case StageParallel:
		c.Parallel, err = decodeWithDefault(node, dynamics.DefaultParallelConfig())
	case StageCompressor:
		c.Compressor, err = decodeWithDefault(node, dynamics.DefaultCompressorConfig())
	case StageSaturation:
		c.Saturation, err = decodeWithDefault(node, effects.DefaultSaturationConfig())
	case StageTransient:
		c.Transient, err = decodeWithDefault(node, dynamics.TransientConfig{})
	case StageImager:
		c.Imager, err = decodeWithDefault(node, spatial.DefaultImagerConfig())
	case StageDelay:
		c.Delay, err = decodeWithDefault(node, effects.DefaultDelayConfig())
	case StageReverb:
		c.Reverb, err = decodeWithDefault(node, reverb.DefaultConfig())
	case StageBass:
		c.Bass, err = decodeWithDefault(node, spatial.DefaultBassConfig())
	case StageClipper:
		c.Clipper, err = decodeWithDefault(node, effects.DefaultClipperConfig())
	case StageLimiter:
		c.Limiter, err = decodeWithDefault(node, dynamics.DefaultLimiterConfig())
	}
	return err
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func normalized[T any](v *T, norm func(T) T) *T {
	if v == nil {
		return nil
	}
	out := norm(*v)
	return &out
}

// Normalize returns a copy with every present stage clamped into its valid
// range. Non-finite values take the stage defaults. Symbolic fields (key,
// scale, saturation type, note division) are not validated; Apply reports
// those.
func (c Config) Normalize() Config {
	return Config{
		Gate: normalized(c.Gate, func(v dynamics.GateConfig) dynamics.GateConfig {
			return v.Normalize(dynamics.DefaultGateConfig())
		}),
		Pitch: normalized(c.Pitch, func(v pitch.CorrectorConfig) pitch.CorrectorConfig {
			return v.Normalize(pitch.DefaultCorrectorConfig())
		}),
		DeEsser: normalized(c.DeEsser, func(v dynamics.DeEsserConfig) dynamics.DeEsserConfig {
			return v.Normalize(dynamics.DefaultDeEsserConfig())
		}),
		DynamicEQ: normalized(c.DynamicEQ, dynamics.DynamicEQConfig.Normalize),
		EQ:        normalized(c.EQ, eq.Config.Normalize),
		Parallel: normalized(c.Parallel, func(v dynamics.ParallelConfig) dynamics.ParallelConfig {
			return v.Normalize(dynamics.DefaultParallelConfig())
		}),
		Compressor: normalized(c.Compressor, func(v dynamics.CompressorConfig) dynamics.CompressorConfig {
			return v.Normalize(dynamics.DefaultCompressorConfig())
		}),
		Saturation: normalized(c.Saturation, func(v effects.SaturationConfig) effects.SaturationConfig {
			return v.Normalize(effects.DefaultSaturationConfig())
		}),
		Transient: normalized(c.Transient, func(v dynamics.TransientConfig) dynamics.TransientConfig {
			return v.Normalize(dynamics.TransientConfig{})
		}),
		Imager: normalized(c.Imager, func(v spatial.ImagerConfig) spatial.ImagerConfig {
			return v.Normalize(spatial.DefaultImagerConfig())
		}),
		Delay: normalized(c.Delay, func(v effects.DelayConfig) effects.DelayConfig {
			return v.Normalize(effects.DefaultDelayConfig())
		}),
		Reverb: normalized(c.Reverb, func(v reverb.Config) reverb.Config {
			return v.Normalize(reverb.DefaultConfig())
		}),
		Bass: normalized(c.Bass, func(v spatial.BassConfig) spatial.BassConfig {
			return v.Normalize(spatial.DefaultBassConfig())
		}),
		Clipper: normalized(c.Clipper, func(v effects.ClipperConfig) effects.ClipperConfig {
			return v.Normalize(effects.DefaultClipperConfig())
		}),
		Limiter: normalized(c.Limiter, func(v dynamics.LimiterConfig) dynamics.LimiterConfig {
			return v.Normalize(dynamics.DefaultLimiterConfig())
		}),
	}
}

// Apply calls the setter of every present stage in processing order. A
// failing stage does not stop the others; all failures are returned
// joined.
//
//nolint:cyclop
func (c *Chain) Apply(cfg Config) error {
	var errs []error
	try := func(s Stage, err error) {
		if err != nil {
			c.log.WithError(err).WithField("stage", s).Warn("effectchain: stage not applied")
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
		}
	}

	if cfg.Gate != nil {
		try(StageGate, c.SetGate(*cfg.Gate))
	}
	if cfg.Pitch != nil {
		try(StagePitch, c.SetPitchCorrection(*cfg.Pitch))
	}
	if cfg.DeEsser != nil {
		try(StageDeEsser, c.SetDeEsser(*cfg.DeEsser))
	}
	if cfg.DynamicEQ != nil {
		try(StageDynamicEQ, c.SetDynamicEQ(*cfg.DynamicEQ))
	}
	if cfg.EQ != nil {
		try(StageEQ, c.SetEQ(*cfg.EQ))
	}
	if cfg.Parallel != nil {
		try(StageParallel, c.SetParallelCompression(*cfg.Parallel))
	}
	if cfg.Compressor != nil {
		try(StageCompressor, c.SetCompressor(*cfg.Compressor))
	}
	if cfg.Saturation != nil {
		try(StageSaturation, c.SetSaturation(*cfg.Saturation))
	}
	if cfg.Transient != nil {
		try(StageTransient, c.SetTransientShaper(*cfg.Transient))
	}
	if cfg.Imager != nil {
		try(StageImager, c.SetStereoImager(*cfg.Imager))
	}
	if cfg.Delay != nil {
		try(StageDelay, c.SetDelay(*cfg.Delay))
	}
	if cfg.Reverb != nil {
		try(StageReverb, c.SetReverb(*cfg.Reverb))
	}
	if cfg.Bass != nil {
		try(StageBass, c.SetBassManagement(*cfg.Bass))
	}
	if cfg.Clipper != nil {
		try(StageClipper, c.SetClipper(*cfg.Clipper))
	}
	if cfg.Limiter != nil {
		try(StageLimiter, c.SetLimiter(*cfg.Limiter))
	}

	return errors.Join(errs...)
}

func ptr[T any](v T) *T { return &v }

// Config returns the effective configuration of every present stage.
//
//nolint:cyclop
func (c *Chain) Config() Config {
	var cfg Config
	if c.gate != nil {
		cfg.Gate = ptr(c.gate.Config())
	}
	if c.corrector != nil {
		cfg.Pitch = ptr(c.corrector.Config())
	}
	if c.deEsser != nil {
		cfg.DeEsser = ptr(c.deEsser.Config())
	}
	if c.dynamicEQ != nil {
		cfg.DynamicEQ = ptr(c.dynamicEQ.Config())
	}
	if c.equalizer != nil {
		cfg.EQ = ptr(c.equalizer.Config())
	}
	if c.parallel != nil {
		cfg.Parallel = ptr(c.parallel.Config())
	}
	if c.compressor != nil {
		cfg.Compressor = ptr(c.compressor.Config())
	}
	if c.saturation != nil {
		cfg.Saturation = ptr(c.saturation.Config())
	}
	if c.transient != nil {
		cfg.Transient = ptr(c.transient.Config())
	}
	if c.imager != nil {
		cfg.Imager = ptr(c.imager.Config())
	}
	if c.delay != nil {
		cfg.Delay = ptr(c.delay.Config())
	}
	if c.reverb != nil {
		cfg.Reverb = ptr(c.reverb.Config())
	}
	if c.bass != nil {
		cfg.Bass = ptr(c.bass.Config())
	}
	if c.clipper != nil {
		cfg.Clipper = ptr(c.clipper.Config())
	}
	if c.limiter != nil {
		cfg.Limiter = ptr(c.limiter.Config())
	}
	return cfg
}
