package main

import (
	"github.com/gopxl/beep"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/meter"
)

// levelTap meters the frames a streamer yields without changing them.
type levelTap struct {
	mono     bool
	levels   meter.Meter
	loudness *meter.Loudness
	scratch  [2][]float32
}

func newLevelTap(sampleRate float64, mono bool) (*levelTap, error) {
	l, err := meter.NewLoudness(sampleRate)
	if err != nil {
		return nil, err
	}
	return &levelTap{mono: mono, loudness: l}, nil
}

// measure adds left and right (only left when mono) to the tap.
func (t *levelTap) measure(left, right []float32) {
	if t.mono {
		t.levels.Update(left)
		t.loudness.Process(left)
		return
	}
	t.levels.UpdateStereo(left, right)
	t.loudness.ProcessStereo(left, right)
}

func (t *levelTap) wrap(s beep.Streamer) beep.Streamer {
	return tapStreamer{Streamer: s, tap: t}
}

type tapStreamer struct {
	beep.Streamer
	tap *levelTap
}

func (s tapStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.Streamer.Stream(samples)
	t := s.tap
	t.scratch[0] = core.EnsureLen32(t.scratch[0], n)
	t.scratch[1] = core.EnsureLen32(t.scratch[1], n)
	for i, f := range samples[:n] {
		t.scratch[0][i] = float32(f[0])
		t.scratch[1][i] = float32(f[1])
	}
	t.measure(t.scratch[0], t.scratch[1])
	return n, ok
}

// padTail appends n frames of silence after s drains. Errors from s are
// still reported.
func padTail(s beep.Streamer, n int) beep.Streamer {
	if n <= 0 {
		return s
	}
	return paddedStreamer{Streamer: beep.Seq(s, beep.Silence(n)), src: s}
}

type paddedStreamer struct {
	beep.Streamer
	src beep.Streamer
}

func (s paddedStreamer) Err() error { return s.src.Err() }
