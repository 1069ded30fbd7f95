package pitch

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/interp"
)

const (
	// GrainSize is the length of one Hann grain in samples.
	GrainSize = 2048
	// Hop between grain onsets (4x overlap).
	Hop = GrainSize / 4

	MinRatio = 0.5
	MaxRatio = 2.0

	historySize = 16384
	accumSize   = 2 * GrainSize

	// Read lag bounds, in samples behind the write head at grain onset.
	// minReadLag keeps a full grain read at MaxRatio inside written history.
	minReadLag     = (GrainSize-1)*MaxRatio + 3
	maxReadLag     = minReadLag + GrainSize
	initialReadLag = minReadLag + GrainSize/2
)

// Shifter is a granular overlap-add pitch shifter.
//
// Every Hop samples a Hann grain of GrainSize samples is read from the
// input history at rate Ratio and added to the output accumulator. Each
// grain starts where the previous one's read head would be, so overlapping
// grains stay phase coherent. When the read lag leaves its bounds the read
// head jumps by a whole number of source periods (see SetPeriod), which
// keeps periodic material seamless across the jump.
type Shifter struct {
	ratio     float64
	period    float64
	lastRatio float64
	readLag   float64
	started   bool

	window      []float64
	grain       []float64
	overlapGain float64

	history []float64
	written int64

	accum    []float64
	accIndex int
	hopCount int
}

// NewShifter returns a shifter at unity ratio.
func NewShifter() *Shifter {
	s := &Shifter{
		ratio:     1,
		lastRatio: 1,
		readLag:   initialReadLag,
		window:    make([]float64, GrainSize),
		grain:     make([]float64, GrainSize),
		history:   make([]float64, historySize),
		accum:     make([]float64, accumSize),
	}
	for i := range s.window {
		s.window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/GrainSize)
	}
	for k := 0; k < GrainSize; k += Hop {
		s.overlapGain += s.window[k]
	}
	return s
}

// Ratio returns the read rate of new grains.
func (s *Shifter) Ratio() float64 { return s.ratio }

// SetRatio sets the pitch ratio for grains started from now on, clamped to
// [MinRatio, MaxRatio].
func (s *Shifter) SetRatio(ratio float64) {
	s.ratio = core.ClampFinite(ratio, MinRatio, MaxRatio, s.ratio)
}

// SetPeriod sets the source period in samples used to align read jumps.
// Zero or invalid values mean unknown; jumps then move half a grain.
func (s *Shifter) SetPeriod(samples float64) {
	if !core.IsFinite(samples) || samples <= 0 || samples > GrainSize {
		samples = 0
	}
	s.period = samples
}

// Latency returns the delay of the shifter at unity ratio.
func (s *Shifter) Latency() int { return int(initialReadLag) }

// Reset clears history and grains.
func (s *Shifter) Reset() {
	core.Zero(s.history)
	core.Zero(s.accum)
	s.written = 0
	s.accIndex = 0
	s.hopCount = 0
	s.readLag = initialReadLag
	s.lastRatio = s.ratio
	s.started = false
}

// ProcessSample pushes one input sample and returns one output sample.
func (s *Shifter) ProcessSample(x float64) float64 {
	s.history[s.written%historySize] = core.SanitizeSample(x)

	if s.hopCount == 0 {
		s.startGrain()
	}
	s.hopCount++
	if s.hopCount == Hop {
		s.hopCount = 0
	}
	s.written++

	y := s.accum[s.accIndex]
	s.accum[s.accIndex] = 0
	s.accIndex = (s.accIndex + 1) % accumSize

	return y / s.overlapGain
}

// Process shifts buf in place.
func (s *Shifter) Process(buf []float32) {
	for i, v := range buf {
		buf[i] = float32(s.ProcessSample(float64(v)))
	}
}

func (s *Shifter) startGrain() {
	if s.started {
		s.readLag += Hop * (1 - s.lastRatio)
	}
	s.started = true
	s.realign()
	s.lastRatio = s.ratio

	start := float64(s.written) - s.readLag
	for k := range s.grain {
		s.grain[k] = interp.Hermite4Ring(s.history, start+float64(k)*s.ratio)
	}
	vecmath.MulBlockInPlace(s.grain, s.window)

	idx := s.accIndex
	for _, v := range s.grain {
		s.accum[idx] += v
		idx++
		if idx == accumSize {
			idx = 0
		}
	}
}

// realign pulls the read lag back inside [minReadLag, maxReadLag].
func (s *Shifter) realign() {
	if s.readLag >= minReadLag && s.readLag <= maxReadLag {
		return
	}

	step := s.period
	if step <= 0 {
		step = GrainSize / 2
	}
	if s.readLag < minReadLag {
		s.readLag += math.Ceil((minReadLag-s.readLag)/step) * step
	} else {
		s.readLag -= math.Ceil((s.readLag-maxReadLag)/step) * step
	}
	if s.readLag < minReadLag || s.readLag > maxReadLag {
		s.readLag = initialReadLag
	}
}
