package pitch

import (
	"github.com/cwbudde/algo-mastering/dsp/core"
)

// Per-hop smoothing coefficient at speed 0. Speed 1 snaps in one hop.
const minGlide = 0.02

// CorrectorConfig controls pitch correction.
type CorrectorConfig struct {
	Key    string  `yaml:"key"`
	Scale  string  `yaml:"scale"`
	Speed  float64 `yaml:"speed"`
	Amount float64 `yaml:"amount"`
}

// DefaultCorrectorConfig returns chromatic correction at moderate speed.
func DefaultCorrectorConfig() CorrectorConfig {
	return CorrectorConfig{Key: "C", Scale: "chromatic", Speed: 0.5, Amount: 1}
}

// Normalize clamps Speed and Amount into [0, 1] and fills empty key or
// scale names from fallback. Names are not validated here.
func (c CorrectorConfig) Normalize(fallback CorrectorConfig) CorrectorConfig {
	out := CorrectorConfig{
		Key:    c.Key,
		Scale:  c.Scale,
		Speed:  core.ClampFinite(c.Speed, 0, 1, fallback.Speed),
		Amount: core.ClampFinite(c.Amount, 0, 1, fallback.Amount),
	}
	if out.Key == "" {
		out.Key = fallback.Key
	}
	if out.Scale == "" {
		out.Scale = fallback.Scale
	}
	return out
}

// Corrector detects the pitch of the (channel-summed) input every Hop
// samples, quantizes it to the configured key and scale and drives one
// Shifter per channel with the smoothed correction ratio.
type Corrector struct {
	sampleRate float64
	cfg        CorrectorConfig

	detector  *Detector
	quantizer *Quantizer
	shifters  [2]*Shifter

	analysis []float64
	frame    []float64
	writePos int
	filled   int
	hopCount int

	ratio      float64
	detectedHz float64
	targetHz   float64
}

// NewCorrector creates a corrector. Unknown key or scale names are errors.
func NewCorrector(sampleRate float64, cfg CorrectorConfig) (*Corrector, error) {
	det, err := NewDetector(sampleRate, max(DefaultWindow, int(sampleRate/MinDetectHz)+1))
	if err != nil {
		return nil, err
	}

	cfg = cfg.Normalize(DefaultCorrectorConfig())
	q, err := NewQuantizer(cfg.Key, cfg.Scale)
	if err != nil {
		return nil, err
	}

	span := det.Span()
	return &Corrector{
		sampleRate: sampleRate,
		cfg:        cfg,
		detector:   det,
		quantizer:  q,
		shifters:   [2]*Shifter{NewShifter(), NewShifter()},
		analysis:   make([]float64, span),
		frame:      make([]float64, span),
		ratio:      1,
	}, nil
}

// SetConfig applies cfg. Key and scale errors leave the previous
// configuration in place.
func (c *Corrector) SetConfig(cfg CorrectorConfig) error {
	cfg = cfg.Normalize(c.cfg)
	if cfg.Key != c.cfg.Key || cfg.Scale != c.cfg.Scale {
		if err := c.quantizer.Set(cfg.Key, cfg.Scale); err != nil {
			return err
		}
	}
	c.cfg = cfg
	return nil
}

// Config returns the effective configuration.
func (c *Corrector) Config() CorrectorConfig { return c.cfg }

// Ratio returns the smoothed correction ratio before Amount scaling.
func (c *Corrector) Ratio() float64 { return c.ratio }

// AppliedRatio returns the ratio currently driving the shifters.
func (c *Corrector) AppliedRatio() float64 { return 1 + (c.ratio-1)*c.cfg.Amount }

// DetectedHz returns the last voiced detection, or 0.
func (c *Corrector) DetectedHz() float64 { return c.detectedHz }

// TargetHz returns the quantized target of the last voiced detection.
func (c *Corrector) TargetHz() float64 { return c.targetHz }

// Latency returns the processing delay in samples; zero at Amount 0.
func (c *Corrector) Latency() int {
	if c.cfg.Amount == 0 {
		return 0
	}
	return c.shifters[0].Latency()
}

// Reset clears analysis and shifter state.
func (c *Corrector) Reset() {
	core.Zero(c.analysis)
	c.writePos = 0
	c.filled = 0
	c.hopCount = 0
	c.ratio = 1
	c.detectedHz = 0
	c.targetHz = 0
	for _, s := range c.shifters {
		s.SetRatio(1)
		s.SetPeriod(0)
		s.Reset()
	}
}

// Process corrects a mono buffer in place.
func (c *Corrector) Process(buf []float32) {
	sh := c.shifters[0]
	for i, v := range buf {
		x := core.SanitizeSample(float64(v))
		c.analyze(x)
		y := sh.ProcessSample(x)
		if c.cfg.Amount > 0 {
			buf[i] = float32(y)
		}
	}
}

// ProcessStereo detects on (L+R)/2 and shifts both channels by the same
// ratio.
func (c *Corrector) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		l := core.SanitizeSample(float64(left[i]))
		r := core.SanitizeSample(float64(right[i]))
		c.analyze(0.5 * (l + r))
		yl := c.shifters[0].ProcessSample(l)
		yr := c.shifters[1].ProcessSample(r)
		if c.cfg.Amount > 0 {
			left[i] = float32(yl)
			right[i] = float32(yr)
		}
	}
}

func (c *Corrector) analyze(x float64) {
	c.analysis[c.writePos] = x
	c.writePos++
	if c.writePos == len(c.analysis) {
		c.writePos = 0
	}
	if c.filled < len(c.analysis) {
		c.filled++
	}

	c.hopCount++
	if c.hopCount < Hop {
		return
	}
	c.hopCount = 0
	if c.filled < len(c.analysis) {
		return
	}

	n := copy(c.frame, c.analysis[c.writePos:])
	copy(c.frame[n:], c.analysis[:c.writePos])

	target, period := 1.0, 0.0
	if hz, ok := c.detector.Detect(c.frame); ok {
		c.detectedHz = hz
		c.targetHz = c.quantizer.Quantize(hz)
		target = core.Clamp(c.targetHz/hz, MinRatio, MaxRatio)
		period = c.sampleRate / hz
	}

	coeff := minGlide + (1-minGlide)*c.cfg.Speed
	c.ratio += (target - c.ratio) * coeff

	applied := c.AppliedRatio()
	for _, s := range c.shifters {
		s.SetRatio(applied)
		s.SetPeriod(period)
	}
}
