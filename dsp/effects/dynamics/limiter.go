package dynamics

import (
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

const (
	maxLimiterLookaheadMs = 20.0
	minLimiterThresholdDB = -24.0
	maxLimiterThresholdDB = 0.0
	minLimiterReleaseMs   = 1.0
	maxLimiterReleaseMs   = 2000.0
)

// LimiterConfig holds the limiter parameters.
type LimiterConfig struct {
	// ThresholdDB is the output ceiling in dBFS.
	ThresholdDB float64 `yaml:"threshold_db"`
	ReleaseMs   float64 `yaml:"release_ms"`
	LookaheadMs float64 `yaml:"lookahead_ms"`
}

// DefaultLimiterConfig returns a -0.3 dBFS ceiling with 5 ms lookahead.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		ThresholdDB: -0.3,
		ReleaseMs:   50,
		LookaheadMs: 5,
	}
}

// Normalize clamps every field into its valid range, keeping fallback
// values for non-finite fields.
func (c LimiterConfig) Normalize(fallback LimiterConfig) LimiterConfig {
	return LimiterConfig{
		ThresholdDB: core.ClampFinite(c.ThresholdDB, minLimiterThresholdDB, maxLimiterThresholdDB, fallback.ThresholdDB),
		ReleaseMs:   core.ClampFinite(c.ReleaseMs, minLimiterReleaseMs, maxLimiterReleaseMs, fallback.ReleaseMs),
		LookaheadMs: core.ClampFinite(c.LookaheadMs, 0, maxLimiterLookaheadMs, fallback.LookaheadMs),
	}
}

// Limiter is a lookahead brickwall limiter.
//
// Input is delayed by the lookahead time while the detector sees it
// undelayed. The required gain for each sample is min(1, ceiling/peak); the
// applied gain is the minimum of the required gains of every sample still
// in the delay line, so reduction is in place before a peak leaves the
// line. When the window minimum rises the gain recovers with the release
// time constant. A final clamp to the ceiling absorbs rounding.
//
// Latency is Latency() samples. Stereo detection is linked on
// max(|L|, |R|).
type Limiter struct {
	sampleRate float64
	cfg        LimiterConfig

	ceiling      float64
	releaseCoeff float64
	lookahead    int

	delayBacking [2][]float64
	delay        [2][]float64
	writeIndex   int

	window minWindow
	pos    int64
	gain   float64
}

// NewLimiter creates a limiter. The delay lines are sized for the maximum
// lookahead so later SetConfig calls never allocate.
func NewLimiter(sampleRate float64, cfg LimiterConfig) (*Limiter, error) {
	if err := core.ValidateSampleRate("limiter", sampleRate); err != nil {
		return nil, err
	}

	capacity := int(math.Ceil(maxLimiterLookaheadMs*0.001*sampleRate)) + 1

	l := &Limiter{
		sampleRate: sampleRate,
		cfg:        DefaultLimiterConfig(),
		window:     newMinWindow(capacity),
		gain:       1,
	}
	l.delayBacking[0] = make([]float64, capacity)
	l.delayBacking[1] = make([]float64, capacity)
	l.SetConfig(cfg)

	return l, nil
}

// SetConfig applies new parameters. A lookahead change clears the delay
// lines.
func (l *Limiter) SetConfig(cfg LimiterConfig) {
	l.cfg = cfg.Normalize(l.cfg)
	l.ceiling = core.DBToLinear(l.cfg.ThresholdDB)
	l.releaseCoeff = core.TimeCoeff(l.cfg.ReleaseMs, l.sampleRate)

	lookahead := int(math.Round(l.cfg.LookaheadMs * 0.001 * l.sampleRate))
	if lookahead > len(l.delayBacking[0])-1 {
		lookahead = len(l.delayBacking[0]) - 1
	}

	if lookahead != l.lookahead || l.delay[0] == nil {
		l.lookahead = lookahead
		l.delay[0] = l.delayBacking[0][:lookahead+1]
		l.delay[1] = l.delayBacking[1][:lookahead+1]
		l.Reset()
	}
}

// Config returns the effective (clamped) configuration.
func (l *Limiter) Config() LimiterConfig { return l.cfg }

// Latency returns the lookahead delay in samples.
func (l *Limiter) Latency() int { return l.lookahead }

// GainReductionDB returns the current gain in dB (≤ 0).
func (l *Limiter) GainReductionDB() float64 { return core.LinearToDB(l.gain) }

// Reset clears the delay lines and returns the gain to unity.
func (l *Limiter) Reset() {
	core.Zero(l.delayBacking[0])
	core.Zero(l.delayBacking[1])
	l.writeIndex = 0
	l.window.reset()
	l.pos = 0
	l.gain = 1
}

// Process limits a mono buffer in place.
func (l *Limiter) Process(buf []float32) {
	line := l.delay[0]
	for i, s := range buf {
		x := float64(s)
		g := l.step(abs64(x))

		line[l.writeIndex] = x
		out := line[l.readIndex()] * g
		l.advance()

		buf[i] = float32(l.clampCeiling(out))
	}
}

// ProcessStereo limits left and right in place with linked detection.
func (l *Limiter) ProcessStereo(left, right []float32) {
	lineL, lineR := l.delay[0], l.delay[1]

	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		g := l.step(absMax(left[i], right[i]))

		lineL[l.writeIndex] = float64(left[i])
		lineR[l.writeIndex] = float64(right[i])
		r := l.readIndex()
		outL := lineL[r] * g
		outR := lineR[r] * g
		l.advance()

		left[i] = float32(l.clampCeiling(outL))
		right[i] = float32(l.clampCeiling(outR))
	}
}

func (l *Limiter) step(peak float64) float64 {
	required := 1.0
	if peak > l.ceiling {
		required = l.ceiling / peak
	}

	l.window.push(l.pos, required, int64(l.lookahead)+1)
	l.pos++

	target := l.window.min()
	if target <= l.gain {
		l.gain = target
	} else {
		l.gain += (target - l.gain) * l.releaseCoeff
	}

	return l.gain
}

// readIndex is the slot holding the sample written lookahead samples ago.
func (l *Limiter) readIndex() int {
	r := l.writeIndex + 1
	if r >= len(l.delay[0]) {
		r = 0
	}
	return r
}

func (l *Limiter) advance() {
	l.writeIndex++
	if l.writeIndex >= len(l.delay[0]) {
		l.writeIndex = 0
	}
}

func (l *Limiter) clampCeiling(x float64) float64 {
	if x > l.ceiling {
		return l.ceiling
	}
	if x < -l.ceiling {
		return -l.ceiling
	}
	return x
}

// minWindow is a monotonic deque tracking the minimum over a sliding
// window of samples. Storage is fixed at construction.
type minWindow struct {
	pos   []int64
	value []float64
	head  int
	count int
}

func newMinWindow(capacity int) minWindow {
	return minWindow{
		pos:   make([]int64, capacity+1),
		value: make([]float64, capacity+1),
	}
}

func (w *minWindow) reset() {
	w.head = 0
	w.count = 0
}

func (w *minWindow) at(i int) int {
	return (w.head + i) % len(w.value)
}

// push appends (pos, v) and expires entries older than length samples.
func (w *minWindow) push(pos int64, v float64, length int64) {
	for w.count > 0 && w.value[w.at(w.count-1)] >= v {
		w.count--
	}

	tail := w.at(w.count)
	w.pos[tail] = pos
	w.value[tail] = v
	w.count++

	for w.count > 0 && w.pos[w.head] <= pos-length {
		w.head = (w.head + 1) % len(w.value)
		w.count--
	}
}

func (w *minWindow) min() float64 {
	if w.count == 0 {
		return 1
	}
	return w.value[w.head]
}
