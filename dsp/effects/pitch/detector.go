package pitch

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

const (
	// Search range of the detector.
	MaxDetectHz = 1000.0
	MinDetectHz = 50.0

	// DefaultWindow is the integration window of the difference function.
	DefaultWindow = 2048

	defaultThreshold = 0.15
	// Frames whose best normalized difference stays above this are unvoiced.
	maxAperiodicity = 0.45
	silenceRMS      = 1e-4
)

// ErrFrameTooShort is returned when a frame cannot cover window + max lag.
var ErrFrameTooShort = errors.New("pitch: frame shorter than detector span")

// Detector estimates the fundamental of a mono frame with the YIN method.
//
// The squared difference d(τ) = Σ (x[j] − x[j+τ])² over the window is
// expanded into energy terms from prefix sums and a cross-correlation term
// computed with a single FFT pair.
type Detector struct {
	sampleRate float64
	window     int
	minLag     int
	maxLag     int
	threshold  float64

	plan     *algofft.Plan[complex128]
	frameBuf []complex128
	spanBuf  []complex128
	frameFFT []complex128
	spanFFT  []complex128
	corr     []complex128

	prefix []float64
	diff   []float64
	cmnd   []float64
}

// NewDetector builds a detector for the given sample rate and window size.
// The lag range covers MinDetectHz..MaxDetectHz.
func NewDetector(sampleRate float64, window int) (*Detector, error) {
	if err := core.ValidateSampleRate("pitch detector", sampleRate); err != nil {
		return nil, err
	}

	minLag := max(2, int(math.Floor(sampleRate/MaxDetectHz)))
	maxLag := int(math.Ceil(sampleRate / MinDetectHz))
	if window < maxLag {
		return nil, fmt.Errorf("pitch detector: window %d shorter than max lag %d", window, maxLag)
	}

	fftSize := nextPow2(window + maxLag)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("pitch detector: %w", err)
	}

	return &Detector{
		sampleRate: sampleRate,
		window:     window,
		minLag:     minLag,
		maxLag:     maxLag,
		threshold:  defaultThreshold,
		plan:       plan,
		frameBuf:   make([]complex128, fftSize),
		spanBuf:    make([]complex128, fftSize),
		frameFFT:   make([]complex128, fftSize),
		spanFFT:    make([]complex128, fftSize),
		corr:       make([]complex128, fftSize),
		prefix:     make([]float64, window+maxLag+1),
		diff:       make([]float64, maxLag+1),
		cmnd:       make([]float64, maxLag+1),
	}, nil
}

// Span returns the number of samples Detect consumes.
func (d *Detector) Span() int { return d.window + d.maxLag }

// LagRange returns the smallest and largest lag searched.
func (d *Detector) LagRange() (minLag, maxLag int) { return d.minLag, d.maxLag }

// SetThreshold sets the absolute threshold on the normalized difference,
// clamped to [0.01, 0.5].
func (d *Detector) SetThreshold(v float64) {
	d.threshold = core.ClampFinite(v, 0.01, 0.5, d.threshold)
}

// Difference computes d(τ) for τ in [0, maxLag] over the first Span()
// samples of frame. The returned slice is owned by the detector.
func (d *Detector) Difference(frame []float64) ([]float64, error) {
	span := d.Span()
	if len(frame) < span {
		return nil, fmt.Errorf("%w: %d < %d", ErrFrameTooShort, len(frame), span)
	}
	frame = frame[:span]

	d.prefix[0] = 0
	for i, v := range frame {
		d.prefix[i+1] = d.prefix[i] + v*v
	}
	energy := d.prefix[d.window]

	for i := range d.frameBuf {
		d.frameBuf[i] = 0
		d.spanBuf[i] = 0
	}
	for i := 0; i < d.window; i++ {
		d.frameBuf[i] = complex(frame[i], 0)
	}
	for i, v := range frame {
		d.spanBuf[i] = complex(v, 0)
	}

	if err := d.plan.Forward(d.frameFFT, d.frameBuf); err != nil {
		return nil, fmt.Errorf("pitch detector: forward FFT: %w", err)
	}
	if err := d.plan.Forward(d.spanFFT, d.spanBuf); err != nil {
		return nil, fmt.Errorf("pitch detector: forward FFT: %w", err)
	}
	for i := range d.frameFFT {
		d.frameFFT[i] = cmplx.Conj(d.frameFFT[i]) * d.spanFFT[i]
	}
	if err := d.plan.Inverse(d.corr, d.frameFFT); err != nil {
		return nil, fmt.Errorf("pitch detector: inverse FFT: %w", err)
	}

	// r(0) equals the window energy, which calibrates the inverse scaling.
	scale := 0.0
	if r0 := real(d.corr[0]); math.Abs(r0) > 1e-300 {
		scale = energy / r0
	}

	d.diff[0] = 0
	for tau := 1; tau <= d.maxLag; tau++ {
		shifted := d.prefix[tau+d.window] - d.prefix[tau]
		v := energy + shifted - 2*real(d.corr[tau])*scale
		if v < 0 {
			v = 0
		}
		d.diff[tau] = v
	}

	return d.diff, nil
}

// Detect returns the fundamental of frame in Hz and whether the frame is
// voiced. Silent, aperiodic or too-short frames report (0, false).
func (d *Detector) Detect(frame []float64) (float64, bool) {
	diff, err := d.Difference(frame)
	if err != nil {
		return 0, false
	}
	if math.Sqrt(d.prefix[d.window]/float64(d.window)) < silenceRMS {
		return 0, false
	}

	d.cmnd[0] = 1
	running := 0.0
	for tau := 1; tau <= d.maxLag; tau++ {
		running += diff[tau]
		if running <= 0 {
			d.cmnd[tau] = 1
			continue
		}
		d.cmnd[tau] = diff[tau] * float64(tau) / running
	}

	best := -1
	for tau := d.minLag; tau <= d.maxLag; tau++ {
		if d.cmnd[tau] < d.threshold {
			for tau+1 <= d.maxLag && d.cmnd[tau+1] < d.cmnd[tau] {
				tau++
			}
			best = tau
			break
		}
	}
	if best < 0 {
		best = d.minLag
		for tau := d.minLag + 1; tau <= d.maxLag; tau++ {
			if d.cmnd[tau] < d.cmnd[best] {
				best = tau
			}
		}
		if d.cmnd[best] > maxAperiodicity {
			return 0, false
		}
	}

	lag := float64(best)
	if best > d.minLag && best < d.maxLag {
		lag += parabolicOffset(diff[best-1], diff[best], diff[best+1])
	}
	if lag <= 0 {
		return 0, false
	}

	return d.sampleRate / lag, true
}

// DifferenceDirect evaluates d(τ) for τ in [0, maxLag] by brute force.
// It is O(window·maxLag) and serves as the reference for Difference.
func DifferenceDirect(frame []float64, window, maxLag int) []float64 {
	out := make([]float64, maxLag+1)
	if window <= 0 || len(frame) < window+maxLag {
		return out
	}
	for tau := 1; tau <= maxLag; tau++ {
		sum := 0.0
		for j := 0; j < window; j++ {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		out[tau] = sum
	}
	return out
}

// parabolicOffset returns the vertex offset in (-0.5, 0.5) of the parabola
// through three equally spaced points.
func parabolicOffset(a, b, c float64) float64 {
	den := a - 2*b + c
	if den <= 0 {
		return 0
	}
	return core.Clamp(0.5*(a-c)/den, -0.5, 0.5)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
