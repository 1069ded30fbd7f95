package biquad

import (
	"fmt"
	"math"
)

const (
	minQ = 1e-3

	minFrequencyHz = 1.0
	// Upper frequency bound as a fraction of the sample rate; the cookbook
	// equations degenerate at Nyquist.
	maxFrequencyRatio = 0.49

	// ButterworthQ is the Q of a maximally flat second-order section.
	ButterworthQ = 0.7071067811865476
)

// Type selects the filter response.
type Type int

const (
	// Peaking boosts or cuts a bell around the center frequency.
	Peaking Type = iota
	// Highpass is a second-order high-pass; gain is ignored.
	Highpass
	// Lowpass is a second-order low-pass; gain is ignored.
	Lowpass
	// HighShelf boosts or cuts everything above the corner frequency.
	HighShelf
)

// String returns the lowercase name of the response type.
func (t Type) String() string {
	switch t {
	case Peaking:
		return "peaking"
	case Highpass:
		return "highpass"
	case Lowpass:
		return "lowpass"
	case HighShelf:
		return "highshelf"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Coefficients holds the a0-normalized transfer function of one section:
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Filter is a single biquad section with its own coefficients and
// two-sample input/output history. It is not safe for concurrent use.
type Filter struct {
	Coefficients

	sampleRate float64
	kind       Type
	freq       float64
	gainDB     float64
	q          float64

	x1, x2 float64
	y1, y2 float64
}

// New returns a filter configured with the given response.
// sampleRate must be positive; see Configure for parameter clamping.
func New(sampleRate float64, t Type, freq, gainDB, q float64) *Filter {
	f := &Filter{sampleRate: sampleRate}
	f.Configure(t, freq, gainDB, q)
	return f
}

// Configure recomputes the coefficients from the RBJ cookbook equations.
// History is preserved so parameters can change while audio is running.
//
// q is floored at 1e-3 and freq is clamped into [1 Hz, 0.49*sampleRate];
// non-finite arguments keep the previous value.
func (f *Filter) Configure(t Type, freq, gainDB, q float64) {
	if isFinite(freq) {
		f.freq = clampFrequency(freq, f.sampleRate)
	}
	if isFinite(gainDB) {
		f.gainDB = gainDB
	}
	if isFinite(q) {
		f.q = math.Max(q, minQ)
	} else if f.q == 0 {
		f.q = ButterworthQ
	}
	f.kind = t

	f.Coefficients = design(t, f.freq, f.gainDB, f.q, f.sampleRate)
}

// Type returns the configured response type.
func (f *Filter) Type() Type { return f.kind }

// Frequency returns the effective (clamped) frequency in Hz.
func (f *Filter) Frequency() float64 { return f.freq }

// Gain returns the gain in dB (peaking only).
func (f *Filter) Gain() float64 { return f.gainDB }

// Q returns the effective quality factor.
func (f *Filter) Q() float64 { return f.q }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	y := f.B0*x + f.B1*f.x1 + f.B2*f.x2 - f.A1*f.y1 - f.A2*f.y2
	f.x2 = f.x1
	f.x1 = x
	f.y2 = f.y1
	f.y1 = flushDenormal(y)
	return y
}

// Process filters buf in place. Zero-alloc.
func (f *Filter) Process(buf []float32) {
	b0, b1, b2 := f.B0, f.B1, f.B2
	a1, a2 := f.A1, f.A2
	x1, x2, y1, y2 := f.x1, f.x2, f.y1, f.y2

	for i, s := range buf {
		x := float64(s)
		y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
		x2, x1 = x1, x
		y2, y1 = y1, flushDenormal(y)
		buf[i] = float32(y)
	}

	f.x1, f.x2, f.y1, f.y2 = x1, x2, y1, y2
}

// Reset clears the history without touching the coefficients.
func (f *Filter) Reset() {
	f.x1, f.x2 = 0, 0
	f.y1, f.y2 = 0, 0
}

// design evaluates the cookbook formulas. Parameters are already clamped.
func design(t Type, freq, gainDB, q, sampleRate float64) Coefficients {
	w := 2 * math.Pi * freq / sampleRate
	sinW, cosW := math.Sincos(w)
	alpha := sinW / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64

	switch t {
	case Highpass:
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = (1 + cosW) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha
	case Lowpass:
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = (1 - cosW) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha
	case HighShelf:
		a := math.Pow(10, gainDB/40)
		k := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) + (a-1)*cosW + k)
		b1 = -2 * a * ((a - 1) + (a+1)*cosW)
		b2 = a * ((a + 1) + (a-1)*cosW - k)
		a0 = (a + 1) - (a-1)*cosW + k
		a1 = 2 * ((a - 1) - (a+1)*cosW)
		a2 = (a + 1) - (a-1)*cosW - k
	default:
		a := math.Pow(10, gainDB/40)
		b0 = 1 + alpha*a
		b1 = -2 * cosW
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosW
		a2 = 1 - alpha/a
	}

	inv := 1 / a0
	return Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}

func clampFrequency(freq, sampleRate float64) float64 {
	hi := sampleRate * maxFrequencyRatio
	if freq < minFrequencyHz {
		return minFrequencyHz
	}
	if freq > hi {
		return hi
	}
	return freq
}

func flushDenormal(x float64) float64 {
	if x > -1e-30 && x < 1e-30 {
		return 0
	}
	return x
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
