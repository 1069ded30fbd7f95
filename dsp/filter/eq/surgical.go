package eq

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/filter/biquad"
)

// Protection limits.
const (
	BodyLowHz  = 150.0
	BodyHighHz = 500.0

	AirHz       = 5000.0
	MaxAirCutDB = -3.0
	PhaseRiskHz = 35.0
	minBandQ    = 0.1
	maxBandQ    = 30.0
	maxBandGain = 24.0
)

// Band is one peaking band as applied.
type Band struct {
	FrequencyHz float64 `yaml:"frequency_hz"`
	GainDB      float64 `yaml:"gain_db"`
	Q           float64 `yaml:"q"`
}

// Config describes a complete equalizer setting.
type Config struct {
	// HighPassHz enables the high-pass when > 0.
	HighPassHz float64 `yaml:"highpass_hz"`
	Bands      []Band  `yaml:"bands"`
}

// Normalize clamps gains and Q values into the ranges AddBand applies and
// drops bands with non-finite or non-positive frequencies. A non-finite or
// negative HighPassHz disables the high-pass. Protection rules are not
// applied here.
func (c Config) Normalize() Config {
	out := Config{HighPassHz: c.HighPassHz}
	if !core.IsFinite(out.HighPassHz) || out.HighPassHz < 0 {
		out.HighPassHz = 0
	}
	for _, b := range c.Bands {
		if !core.IsFinite(b.FrequencyHz) || b.FrequencyHz <= 0 {
			continue
		}
		out.Bands = append(out.Bands, Band{
			FrequencyHz: b.FrequencyHz,
			GainDB:      core.ClampFinite(b.GainDB, -maxBandGain, maxBandGain, 0),
			Q:           core.ClampFinite(b.Q, minBandQ, maxBandQ, biquad.ButterworthQ),
		})
	}
	return out
}

// Option configures a SurgicalEQ.
type Option func(*SurgicalEQ)

// WithLogger routes protection diagnostics to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *SurgicalEQ) {
		if logger != nil {
			e.log = logger
		}
	}
}

type channelFilters struct {
	highPass *biquad.Filter
	bands    []*biquad.Filter
}

// SurgicalEQ is a static equalizer with body protection.
//
//   - Cuts requested between 150 and 500 Hz are rejected.
//   - Cuts above 5 kHz are limited to -3 dB.
//   - A high-pass above 35 Hz is applied but logged as a phase risk.
//
// Each channel keeps its own filter state.
type SurgicalEQ struct {
	sampleRate float64
	log        logrus.FieldLogger

	bands      []Band
	highPassHz float64
	channels   [2]channelFilters
}

// NewSurgicalEQ creates an empty (pass-through) equalizer.
func NewSurgicalEQ(sampleRate float64, opts ...Option) (*SurgicalEQ, error) {
	if err := core.ValidateSampleRate("surgical eq", sampleRate); err != nil {
		return nil, err
	}

	e := &SurgicalEQ{
		sampleRate: sampleRate,
		log:        discardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// AddBand appends a peaking band unless protection rejects it.
func (e *SurgicalEQ) AddBand(freqHz, gainDB, q float64) {
	band, ok := e.protect(freqHz, gainDB, q)
	if !ok {
		return
	}
	e.bands = append(e.bands, band)
	for ch := range e.channels {
		f := biquad.New(e.sampleRate, biquad.Peaking, band.FrequencyHz, band.GainDB, band.Q)
		e.channels[ch].bands = append(e.channels[ch].bands, f)
	}
}

// protect applies the body and air rules to a requested band.
func (e *SurgicalEQ) protect(freqHz, gainDB, q float64) (Band, bool) {
	if !core.IsFinite(freqHz) || !core.IsFinite(gainDB) || !core.IsFinite(q) || freqHz <= 0 {
		e.log.WithFields(logrus.Fields{
			"frequency_hz": freqHz,
			"gain_db":      gainDB,
			"q":            q,
		}).Warn("eq: ignoring band with invalid parameters")
		return Band{}, false
	}

	gainDB = core.Clamp(gainDB, -maxBandGain, maxBandGain)
	q = core.Clamp(q, minBandQ, maxBandQ)
	fields := logrus.Fields{"frequency_hz": freqHz, "gain_db": gainDB, "q": q}

	if gainDB < 0 && freqHz >= BodyLowHz && freqHz <= BodyHighHz {
		e.log.WithFields(fields).Warn("eq: cut in body range rejected")
		return Band{}, false
	}

	if gainDB < MaxAirCutDB && freqHz > AirHz {
		e.log.WithFields(fields).Infof("eq: high-frequency cut limited to %.0f dB", MaxAirCutDB)
		gainDB = MaxAirCutDB
	}

	return Band{FrequencyHz: freqHz, GainDB: gainDB, Q: q}, true
}

// SetHighPass enables a Butterworth high-pass at freqHz. A value ≤ 0
// removes it.
func (e *SurgicalEQ) SetHighPass(freqHz float64) {
	if !core.IsFinite(freqHz) {
		return
	}

	if freqHz <= 0 {
		e.highPassHz = 0
		for ch := range e.channels {
			e.channels[ch].highPass = nil
		}
		return
	}

	if freqHz > PhaseRiskHz {
		e.log.WithField("frequency_hz", freqHz).Warn("eq: high-pass above 35 Hz may cause audible phase rotation")
	}

	for ch := range e.channels {
		if hp := e.channels[ch].highPass; hp != nil {
			hp.Configure(biquad.Highpass, freqHz, 0, biquad.ButterworthQ)
			continue
		}
		e.channels[ch].highPass = biquad.New(e.sampleRate, biquad.Highpass, freqHz, 0, biquad.ButterworthQ)
	}
	e.highPassHz = e.channels[0].highPass.Frequency()
}

// SetConfig replaces all bands and the high-pass with cfg. Protection
// applies to every band. Filters that remain in use are reconfigured in
// place and keep their history.
func (e *SurgicalEQ) SetConfig(cfg Config) {
	if core.IsFinite(cfg.HighPassHz) {
		e.SetHighPass(cfg.HighPassHz)
	} else {
		e.SetHighPass(0)
	}

	e.bands = e.bands[:0]
	for _, b := range cfg.Bands {
		if band, ok := e.protect(b.FrequencyHz, b.GainDB, b.Q); ok {
			e.bands = append(e.bands, band)
		}
	}

	for ch := range e.channels {
		c := &e.channels[ch]
		for i, band := range e.bands {
			if i < len(c.bands) {
				c.bands[i].Configure(biquad.Peaking, band.FrequencyHz, band.GainDB, band.Q)
				continue
			}
			c.bands = append(c.bands, biquad.New(e.sampleRate, biquad.Peaking, band.FrequencyHz, band.GainDB, band.Q))
		}
		clear(c.bands[len(e.bands):])
		c.bands = c.bands[:len(e.bands)]
	}
}

// Config returns the applied setting.
func (e *SurgicalEQ) Config() Config {
	return Config{HighPassHz: e.highPassHz, Bands: e.Bands()}
}

// Bands returns a copy of the applied bands in processing order.
func (e *SurgicalEQ) Bands() []Band {
	out := make([]Band, len(e.bands))
	copy(out, e.bands)
	return out
}

// HighPass returns the high-pass frequency, 0 when disabled.
func (e *SurgicalEQ) HighPass() float64 { return e.highPassHz }

// MagnitudeDB returns the combined response of the current setting at freq.
func (e *SurgicalEQ) MagnitudeDB(freqHz float64) float64 {
	total := 0.0
	if hp := e.channels[0].highPass; hp != nil {
		total += hp.MagnitudeDB(freqHz)
	}
	for _, f := range e.channels[0].bands {
		total += f.MagnitudeDB(freqHz)
	}
	return total
}

// Clear removes every band and the high-pass.
func (e *SurgicalEQ) Clear() {
	e.bands = e.bands[:0]
	e.highPassHz = 0
	for ch := range e.channels {
		e.channels[ch] = channelFilters{}
	}
}

// Reset clears filter state and keeps the setting.
func (e *SurgicalEQ) Reset() {
	for ch := range e.channels {
		if hp := e.channels[ch].highPass; hp != nil {
			hp.Reset()
		}
		for _, f := range e.channels[ch].bands {
			f.Reset()
		}
	}
}

// Process equalizes a mono buffer in place.
func (e *SurgicalEQ) Process(buf []float32) {
	e.processChannel(buf, 0)
}

// ProcessStereo equalizes left and right in place.
func (e *SurgicalEQ) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	e.processChannel(left[:n], 0)
	e.processChannel(right[:n], 1)
}

func (e *SurgicalEQ) processChannel(buf []float32, ch int) {
	c := &e.channels[ch]
	if c.highPass != nil {
		c.highPass.Process(buf)
	}
	for _, f := range c.bands {
		f.Process(buf)
	}
}
