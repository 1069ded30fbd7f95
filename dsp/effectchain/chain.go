package effectchain

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/effects"
	"github.com/cwbudde/algo-mastering/dsp/effects/dynamics"
	"github.com/cwbudde/algo-mastering/dsp/effects/pitch"
	"github.com/cwbudde/algo-mastering/dsp/effects/reverb"
	"github.com/cwbudde/algo-mastering/dsp/effects/spatial"
	"github.com/cwbudde/algo-mastering/dsp/filter/eq"
)

// Chain owns the mastering stages and runs them in canonical order.
// It is not safe for concurrent use.
type Chain struct {
	ctx    Context
	log    logrus.FieldLogger
	stages [numStages]Runtime

	gate       *dynamics.Gate
	corrector  *pitch.Corrector
	deEsser    *dynamics.DeEsser
	dynamicEQ  *dynamics.DynamicEQ
	equalizer  *eq.SurgicalEQ
	parallel   *dynamics.ParallelCompressor
	compressor *dynamics.Compressor
	saturation *effects.Saturation
	transient  *dynamics.TransientShaper
	imager     *spatial.StereoImager
	delay      *effects.Delay
	reverb     *reverb.MotionReverb
	bass       *spatial.BassManager
	clipper    *effects.Clipper
	limiter    *dynamics.Limiter
}

// Option configures a Chain.
type Option func(*Chain)

// WithLogger routes chain and stage diagnostics to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Chain) {
		if logger != nil {
			c.log = logger
		}
	}
}

// New creates an empty (pass-through) chain.
func New(sampleRate float64, opts ...Option) (*Chain, error) {
	if err := core.ValidateSampleRate("effectchain", sampleRate); err != nil {
		return nil, err
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	c := &Chain{ctx: Context{SampleRate: sampleRate}, log: quiet}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Context returns the chain context.
func (c *Chain) Context() Context { return c.ctx }

// Has reports whether stage s is configured.
func (c *Chain) Has(s Stage) bool {
	return s >= 0 && s < numStages && c.stages[s] != nil
}

// ActiveStages returns the configured stages that process audio, in order.
// A compressor shadowed by parallel compression is not listed.
func (c *Chain) ActiveStages() []Stage {
	var out []Stage
	for s, rt := range c.stages {
		if rt == nil || c.shadowed(Stage(s)) {
			continue
		}
		out = append(out, Stage(s))
	}
	return out
}

func (c *Chain) shadowed(s Stage) bool {
	return s == StageCompressor && c.stages[StageParallel] != nil
}

// Latency returns the total delay in samples introduced by lookahead and
// pitch correction.
func (c *Chain) Latency() int {
	total := 0
	if c.limiter != nil {
		total += c.limiter.Latency()
	}
	if c.corrector != nil {
		total += c.corrector.Latency()
	}
	return total
}

// Reset clears the state of every configured stage and keeps the settings.
func (c *Chain) Reset() {
	for _, rt := range c.stages {
		if rt != nil {
			rt.Reset()
		}
	}
}

// Clear removes every stage, returning the chain to pass-through.
func (c *Chain) Clear() {
	for s := range c.stages {
		c.Remove(Stage(s))
	}
}

// Remove drops stage s. Removing an absent stage is a no-op.
func (c *Chain) Remove(s Stage) {
	switch s {
	case StageGate:
		c.gate = nil
	case StagePitch:
		c.corrector = nil
	case StageDeEsser:
		c.deEsser = nil
	case StageDynamicEQ:
		c.dynamicEQ = nil
	case StageEQ:
		c.equalizer = nil
	case StageParallel:
		c.parallel = nil
	case StageCompressor:
		c.compressor = nil
	case StageSaturation:
		c.saturation = nil
	case StageTransient:
		c.transient = nil
	case StageImager:
		c.imager = nil
	case StageDelay:
		c.delay = nil
	case StageReverb:
		c.reverb = nil
	case StageBass:
		c.bass = nil
	case StageClipper:
		c.clipper = nil
	case StageLimiter:
		c.limiter = nil
	default:
		return
	}
	if c.stages[s] != nil {
		c.log.WithField("stage", s).Debug("effectchain: stage removed")
	}
	c.stages[s] = nil
}

func (c *Chain) install(s Stage, rt Runtime) {
	c.stages[s] = rt
	c.log.WithField("stage", s).Debug("effectchain: stage enabled")
}

// SetGate configures the noise gate.
func (c *Chain) SetGate(cfg dynamics.GateConfig) error {
	if c.gate != nil {
		c.gate.SetConfig(cfg)
		return nil
	}
	g, err := dynamics.NewGate(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.gate = g
	c.install(StageGate, g)
	return nil
}

// SetPitchCorrection configures pitch correction. Unknown key or scale
// names are errors.
func (c *Chain) SetPitchCorrection(cfg pitch.CorrectorConfig) error {
	if c.corrector != nil {
		return c.corrector.SetConfig(cfg)
	}
	p, err := pitch.NewCorrector(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.corrector = p
	c.install(StagePitch, p)
	return nil
}

// SetDeEsser configures the de-esser.
func (c *Chain) SetDeEsser(cfg dynamics.DeEsserConfig) error {
	if c.deEsser != nil {
		c.deEsser.SetConfig(cfg)
		return nil
	}
	d, err := dynamics.NewDeEsser(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.deEsser = d
	c.install(StageDeEsser, d)
	return nil
}

// SetDynamicEQ configures the dynamic EQ bands.
func (c *Chain) SetDynamicEQ(cfg dynamics.DynamicEQConfig) error {
	if c.dynamicEQ != nil {
		c.dynamicEQ.SetConfig(cfg)
		return nil
	}
	d, err := dynamics.NewDynamicEQ(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.dynamicEQ = d
	c.install(StageDynamicEQ, d)
	return nil
}

// SetEQ replaces the static EQ setting. Protection diagnostics go to the
// chain logger.
func (c *Chain) SetEQ(cfg eq.Config) error {
	if c.equalizer == nil {
		e, err := eq.NewSurgicalEQ(c.ctx.SampleRate, eq.WithLogger(c.log.WithField("stage", StageEQ)))
		if err != nil {
			return err
		}
		c.equalizer = e
		c.install(StageEQ, e)
	}
	c.equalizer.SetConfig(cfg)
	return nil
}

// SetParallelCompression configures parallel compression. While present it
// replaces the serial compressor.
func (c *Chain) SetParallelCompression(cfg dynamics.ParallelConfig) error {
	if c.parallel != nil {
		c.parallel.SetConfig(cfg)
		return nil
	}
	p, err := dynamics.NewParallelCompressor(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.parallel = p
	c.install(StageParallel, p)
	return nil
}

// SetCompressor configures the serial compressor.
func (c *Chain) SetCompressor(cfg dynamics.CompressorConfig) error {
	if c.compressor != nil {
		c.compressor.SetConfig(cfg)
		return nil
	}
	comp, err := dynamics.NewCompressor(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.compressor = comp
	c.install(StageCompressor, comp)
	return nil
}

// SetSaturation configures saturation. Unknown types are errors.
func (c *Chain) SetSaturation(cfg effects.SaturationConfig) error {
	if c.saturation != nil {
		return c.saturation.SetConfig(cfg)
	}
	s, err := effects.NewSaturation(cfg)
	if err != nil {
		return err
	}
	c.saturation = s
	c.install(StageSaturation, dualMono{s})
	return nil
}

// SetTransientShaper configures the transient shaper.
func (c *Chain) SetTransientShaper(cfg dynamics.TransientConfig) error {
	if c.transient != nil {
		c.transient.SetConfig(cfg)
		return nil
	}
	t, err := dynamics.NewTransientShaper(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.transient = t
	c.install(StageTransient, t)
	return nil
}

// SetStereoImager configures the stereo imager.
func (c *Chain) SetStereoImager(cfg spatial.ImagerConfig) error {
	if c.imager != nil {
		c.imager.SetConfig(cfg)
		return nil
	}
	im, err := spatial.NewStereoImager(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.imager = im
	c.install(StageImager, stereoOnly{im})
	return nil
}

// SetDelay configures the delay. Unknown note divisions are errors.
func (c *Chain) SetDelay(cfg effects.DelayConfig) error {
	if c.delay != nil {
		return c.delay.SetConfig(cfg)
	}
	d, err := effects.NewDelay(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.delay = d
	c.install(StageDelay, d)
	return nil
}

// SetReverb configures the reverb.
func (c *Chain) SetReverb(cfg reverb.Config) error {
	if c.reverb != nil {
		c.reverb.SetConfig(cfg)
		return nil
	}
	r, err := reverb.NewMotionReverb(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.reverb = r
	c.install(StageReverb, r)
	return nil
}

// SetBassManagement configures mono bass management.
func (c *Chain) SetBassManagement(cfg spatial.BassConfig) error {
	if c.bass != nil {
		c.bass.SetConfig(cfg)
		return nil
	}
	b, err := spatial.NewBassManager(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.bass = b
	c.install(StageBass, stereoOnly{b})
	return nil
}

// SetClipper configures the clipper.
func (c *Chain) SetClipper(cfg effects.ClipperConfig) error {
	if c.clipper != nil {
		c.clipper.SetConfig(cfg)
		return nil
	}
	c.clipper = effects.NewClipper(cfg)
	c.install(StageClipper, dualMono{c.clipper})
	return nil
}

// SetLimiter configures the final limiter.
func (c *Chain) SetLimiter(cfg dynamics.LimiterConfig) error {
	if c.limiter != nil {
		c.limiter.SetConfig(cfg)
		return nil
	}
	l, err := dynamics.NewLimiter(c.ctx.SampleRate, cfg)
	if err != nil {
		return err
	}
	c.limiter = l
	c.install(StageLimiter, l)
	return nil
}

// Compressor returns the serial compressor, or nil.
func (c *Chain) Compressor() *dynamics.Compressor { return c.compressor }

// Limiter returns the limiter, or nil.
func (c *Chain) Limiter() *dynamics.Limiter { return c.limiter }

// PitchCorrector returns the pitch corrector, or nil.
func (c *Chain) PitchCorrector() *pitch.Corrector { return c.corrector }
