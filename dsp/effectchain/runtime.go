package effectchain

import "github.com/cwbudde/algo-mastering/dsp/core"

// Runtime is the per-stage processing contract.
type Runtime interface {
	Process(buf []float32)
	ProcessStereo(left, right []float32)
	Reset()
}

type monoProcessor interface {
	Process(buf []float32)
	Reset()
}

type stereoProcessor interface {
	ProcessStereo(left, right []float32)
	Reset()
}

// dualMono runs a stateless mono processor over each channel.
type dualMono struct{ monoProcessor }

func (d dualMono) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	d.Process(left[:n])
	d.Process(right[:n])
}

// stereoOnly adapts a stereo processor; mono buffers pass untouched.
type stereoOnly struct{ stereoProcessor }

func (stereoOnly) Process([]float32) {}
