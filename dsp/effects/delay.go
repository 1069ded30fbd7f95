package effects

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/delay"
)

const (
	maxDelayTimeMs   = 4000.0
	minDelayTimeMs   = 1.0
	maxDelayFeedback = 0.95
	minTempoBPM      = 20.0
	maxTempoBPM      = 400.0
)

// ErrUnknownDivision is returned for unsupported note divisions.
var ErrUnknownDivision = errors.New("delay: unknown note division")

// ErrInvalidTempo is returned when a note division has no positive tempo.
var ErrInvalidTempo = errors.New("delay: tempo must be positive")

// noteBeats maps a straight note division to its length in quarter notes.
var noteBeats = map[string]float64{
	"1/1":  4,
	"1/2":  2,
	"1/4":  1,
	"1/8":  0.5,
	"1/16": 0.25,
	"1/32": 0.125,
}

// NoteDivisionMs returns the length of a note division at bpm in
// milliseconds. Divisions are "1/1" through "1/32", optionally suffixed
// with "d" (dotted, x1.5) or "t" (triplet, x2/3).
func NoteDivisionMs(bpm float64, division string) (float64, error) {
	if !core.IsFinite(bpm) || bpm <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTempo, bpm)
	}

	div := strings.ToLower(strings.TrimSpace(division))
	factor := 1.0
	switch {
	case strings.HasSuffix(div, "d"):
		factor = 1.5
		div = strings.TrimSuffix(div, "d")
	case strings.HasSuffix(div, "t"):
		factor = 2.0 / 3.0
		div = strings.TrimSuffix(div, "t")
	}

	beats, ok := noteBeats[div]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownDivision, division)
	}

	return 60000 / bpm * beats * factor, nil
}

// DelayConfig holds the delay parameters.
type DelayConfig struct {
	TimeMs float64 `yaml:"time_ms"`
	// Feedback is hard-capped at 0.95.
	Feedback float64 `yaml:"feedback"`
	Mix      float64 `yaml:"mix"`
	// Damping in [0, 1] sets the feedback low-pass; 0 leaves repeats bright.
	Damping float64 `yaml:"damping"`
	// TempoBPM and Division, when both set, override TimeMs.
	TempoBPM float64 `yaml:"tempo_bpm,omitempty"`
	Division string  `yaml:"division,omitempty"`
}

// DefaultDelayConfig returns a subtle quarter-second slap.
func DefaultDelayConfig() DelayConfig {
	return DelayConfig{TimeMs: 250, Feedback: 0.35, Mix: 0.25, Damping: 0.3}
}

// Normalize clamps the numeric fields into range, keeping fallback values
// for non-finite fields. The division name is not validated here, and a
// missing or non-positive tempo is kept so SetConfig can reject it.
func (c DelayConfig) Normalize(fallback DelayConfig) DelayConfig {
	out := DelayConfig{
		TimeMs:   core.ClampFinite(c.TimeMs, minDelayTimeMs, maxDelayTimeMs, fallback.TimeMs),
		Feedback: core.ClampFinite(c.Feedback, 0, maxDelayFeedback, fallback.Feedback),
		Mix:      core.ClampFinite(c.Mix, 0, 1, fallback.Mix),
		Damping:  core.ClampFinite(c.Damping, 0, 0.99, fallback.Damping),
		Division: c.Division,
	}
	if out.Division != "" {
		out.TempoBPM = c.TempoBPM
		if core.IsFinite(c.TempoBPM) && c.TempoBPM > 0 {
			out.TempoBPM = core.Clamp(c.TempoBPM, minTempoBPM, maxTempoBPM)
		}
	}
	return out
}

type delayChannel struct {
	line *delay.Line
	damp float64
}

// Delay is a feedback delay whose repeats pass through a one-pole low-pass
// before re-entering the line. Lines are sized for the maximum time at
// construction, so time changes never allocate.
type Delay struct {
	sampleRate float64
	cfg        DelayConfig

	delaySamples float64
	channels     [2]delayChannel
}

// NewDelay creates a stereo-capable delay.
func NewDelay(sampleRate float64, cfg DelayConfig) (*Delay, error) {
	if err := core.ValidateSampleRate("delay", sampleRate); err != nil {
		return nil, err
	}

	d := &Delay{sampleRate: sampleRate, cfg: DefaultDelayConfig()}
	for ch := range d.channels {
		line, err := delay.ForDuration(maxDelayTimeMs, sampleRate)
		if err != nil {
			return nil, err
		}
		d.channels[ch].line = line
	}

	if err := d.SetConfig(cfg); err != nil {
		return nil, err
	}

	return d, nil
}

// SetConfig applies new parameters. An unknown division or invalid tempo
// returns an error and leaves the delay unchanged.
func (d *Delay) SetConfig(cfg DelayConfig) error {
	next := cfg.Normalize(d.cfg)
	if next.Division != "" {
		ms, err := NoteDivisionMs(next.TempoBPM, next.Division)
		if err != nil {
			return err
		}
		next.TimeMs = core.Clamp(ms, minDelayTimeMs, maxDelayTimeMs)
	}

	d.cfg = next
	d.delaySamples = core.Clamp(next.TimeMs/1000*d.sampleRate, 1, d.channels[0].line.MaxDelay())

	return nil
}

// SetTempo syncs the delay time to a note division at bpm.
func (d *Delay) SetTempo(bpm float64, division string) error {
	cfg := d.cfg
	cfg.TempoBPM = bpm
	cfg.Division = division
	return d.SetConfig(cfg)
}

// Config returns the effective configuration. TimeMs reflects the tempo
// derived time when a division is set.
func (d *Delay) Config() DelayConfig { return d.cfg }

// DelaySamples returns the current delay in samples.
func (d *Delay) DelaySamples() float64 { return d.delaySamples }

// Reset clears the lines and damping state.
func (d *Delay) Reset() {
	for ch := range d.channels {
		d.channels[ch].line.Reset()
		d.channels[ch].damp = 0
	}
}

// Process delays a mono buffer in place.
func (d *Delay) Process(buf []float32) {
	d.processChannel(buf, &d.channels[0])
}

// ProcessStereo delays left and right in place with independent lines.
func (d *Delay) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	d.processChannel(left[:n], &d.channels[0])
	d.processChannel(right[:n], &d.channels[1])
}

func (d *Delay) processChannel(buf []float32, ch *delayChannel) {
	mix := d.cfg.Mix
	fb := d.cfg.Feedback
	damping := d.cfg.Damping

	for i, v := range buf {
		x := float64(v)
		delayed := ch.line.ReadFractional(d.delaySamples)

		ch.damp = core.SanitizeSample(core.FlushDenormals(delayed*(1-damping) + ch.damp*damping))
		ch.line.Write(x + ch.damp*fb)

		out := core.SanitizeSample(x*(1-mix) + delayed*mix)
		buf[i] = float32(out)
	}
}
