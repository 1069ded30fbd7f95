package meter

import (
	"math"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/filter/biquad"
)

// K-weighting pre-filter (BS.1770-4, stage 1 shelf and stage 2 high-pass).
const (
	kShelfHz = 1681.974450955533
	kShelfDB = 3.999843853973347
	kShelfQ  = 0.7071752369554196
	kHighHz  = 38.13547087602444
	kHighQ   = 0.5003270373238773
)

const (
	momentarySeconds = 0.4
	shortTermSeconds = 3.0
	blockStepSeconds = 0.1

	absoluteGateLUFS = -70.0
	relativeGateLU   = -10.0
)

// Loudness measures ITU-R BS.1770 / EBU R128 loudness of a mono or stereo
// stream: momentary (400 ms), short-term (3 s) and gated integrated
// loudness, all in LUFS. Silence reads as -Inf.
type Loudness struct {
	sampleRate float64
	weighting  [2][2]*biquad.Filter

	// Per-frame K-weighted power summed over channels.
	history  []float64
	writeIdx int
	filled   int
	momSum   float64
	shortSum float64
	momLen   int

	step      int
	sinceStep int
	blocks    []float64
}

// NewLoudness creates a loudness meter.
func NewLoudness(sampleRate float64) (*Loudness, error) {
	if err := core.ValidateSampleRate("loudness", sampleRate); err != nil {
		return nil, err
	}

	l := &Loudness{
		sampleRate: sampleRate,
		history:    make([]float64, max(int(math.Round(shortTermSeconds*sampleRate)), 1)),
		momLen:     max(int(math.Round(momentarySeconds*sampleRate)), 1),
		step:       max(int(math.Round(blockStepSeconds*sampleRate)), 1),
	}
	for ch := range l.weighting {
		l.weighting[ch] = [2]*biquad.Filter{
			biquad.New(sampleRate, biquad.HighShelf, kShelfHz, kShelfDB, kShelfQ),
			biquad.New(sampleRate, biquad.Highpass, kHighHz, 0, kHighQ),
		}
	}

	return l, nil
}

// Reset clears all filter state, windows and integration blocks.
func (l *Loudness) Reset() {
	for ch := range l.weighting {
		l.weighting[ch][0].Reset()
		l.weighting[ch][1].Reset()
	}
	core.Zero(l.history)
	l.writeIdx = 0
	l.filled = 0
	l.momSum = 0
	l.shortSum = 0
	l.sinceStep = 0
	l.blocks = l.blocks[:0]
}

func (l *Loudness) weigh(ch int, x float32) float64 {
	y := l.weighting[ch][0].ProcessSample(core.SanitizeSample(float64(x)))
	return l.weighting[ch][1].ProcessSample(y)
}

// Process measures a mono buffer.
func (l *Loudness) Process(buf []float32) {
	for _, x := range buf {
		y := l.weigh(0, x)
		l.push(y * y)
	}
}

// ProcessStereo measures a stereo pair; both channels have unit weight.
func (l *Loudness) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	for i := 0; i < n; i++ {
		yl := l.weigh(0, left[i])
		yr := l.weigh(1, right[i])
		l.push(yl*yl + yr*yr)
	}
}

func (l *Loudness) push(power float64) {
	size := len(l.history)

	l.shortSum += power - l.history[l.writeIdx]
	momTail := l.writeIdx - l.momLen
	if momTail < 0 {
		momTail += size
	}
	l.momSum += power - l.history[momTail]
	l.history[l.writeIdx] = power

	l.writeIdx++
	if l.writeIdx == size {
		l.writeIdx = 0
	}
	if l.filled < size {
		l.filled++
	}
	l.momSum = max(l.momSum, 0)
	l.shortSum = max(l.shortSum, 0)

	l.sinceStep++
	if l.sinceStep >= l.step {
		l.sinceStep = 0
		if l.filled >= l.momLen {
			l.blocks = append(l.blocks, l.momSum/float64(l.momLen))
		}
	}
}

// Momentary returns the loudness of the last 400 ms.
func (l *Loudness) Momentary() float64 {
	return powerToLUFS(l.momSum / float64(l.momLen))
}

// ShortTerm returns the loudness of the last 3 s.
func (l *Loudness) ShortTerm() float64 {
	return powerToLUFS(l.shortSum / float64(len(l.history)))
}

// Integrated returns the gated loudness of everything measured since the
// last Reset. Blocks are 400 ms with 75% overlap; the absolute gate is
// -70 LUFS and the relative gate 10 LU below the absolute-gated mean.
func (l *Loudness) Integrated() float64 {
	absGate := lufsToPower(absoluteGateLUFS)

	sum, n := 0.0, 0
	for _, b := range l.blocks {
		if b > absGate {
			sum += b
			n++
		}
	}
	if n == 0 {
		return math.Inf(-1)
	}

	relGate := sum / float64(n) * math.Pow(10, relativeGateLU/10)
	sum, n = 0, 0
	for _, b := range l.blocks {
		if b > absGate && b > relGate {
			sum += b
			n++
		}
	}
	if n == 0 {
		return math.Inf(-1)
	}

	return powerToLUFS(sum / float64(n))
}

func powerToLUFS(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	return -0.691 + 10*math.Log10(p)
}

func lufsToPower(lufs float64) float64 {
	return math.Pow(10, (lufs+0.691)/10)
}
