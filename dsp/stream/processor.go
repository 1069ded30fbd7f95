package stream

import (
	"github.com/gopxl/beep"

	"github.com/cwbudde/algo-mastering/dsp/core"
)

// StereoProcessor processes two channels in place.
type StereoProcessor interface {
	ProcessStereo(left, right []float32)
}

// MonoProcessor processes one channel in place.
type MonoProcessor interface {
	ProcessMono(buf []float32)
}

// Processor is a beep.Streamer that runs the samples of src through a
// processor. It is not safe for concurrent use.
type Processor struct {
	src    beep.Streamer
	stereo StereoProcessor
	mono   MonoProcessor

	left  []float32
	right []float32
}

// New wraps src so every streamed block passes through proc.
func New(src beep.Streamer, proc StereoProcessor) *Processor {
	return &Processor{src: src, stereo: proc}
}

// NewMono wraps a mono source. Only the left channel is processed and the
// result is written to both channels.
func NewMono(src beep.Streamer, proc MonoProcessor) *Processor {
	return &Processor{src: src, mono: proc}
}

// Stream implements beep.Streamer.
func (p *Processor) Stream(samples [][2]float64) (int, bool) {
	n, ok := p.src.Stream(samples)
	if n == 0 {
		return n, ok
	}

	block := samples[:n]
	p.left = core.EnsureLen32(p.left, n)
	for i, s := range block {
		p.left[i] = float32(s[0])
	}

	if p.mono != nil {
		p.mono.ProcessMono(p.left)
		for i := range block {
			v := float64(p.left[i])
			block[i] = [2]float64{v, v}
		}
		return n, ok
	}

	p.right = core.EnsureLen32(p.right, n)
	for i, s := range block {
		p.right[i] = float32(s[1])
	}
	p.stereo.ProcessStereo(p.left, p.right)
	for i := range block {
		block[i] = [2]float64{float64(p.left[i]), float64(p.right[i])}
	}

	return n, ok
}

// Err returns the error of the wrapped streamer.
func (p *Processor) Err() error { return p.src.Err() }
