package dynamics

import (
	"testing"

	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestParallelMixZeroIsIdentity(t *testing.T) {
	cfg := DefaultParallelConfig()
	cfg.Mix = 0
	p, err := NewParallelCompressor(44100, cfg)
	if err != nil {
		t.Fatalf("NewParallelCompressor() error = %v", err)
	}

	in := testutil.DeterministicNoise(9, 0.8, 3000)
	out := testutil.Clone(in)
	p.Process(out)

	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestParallelMixOneMatchesCompressor(t *testing.T) {
	cfg := DefaultParallelConfig()
	cfg.Mix = 1
	p, _ := NewParallelCompressor(44100, cfg)
	c, _ := NewCompressor(44100, cfg.Compressor)

	in := testutil.DeterministicSine(150, 44100, 0.7, 8192)
	got := testutil.Clone(in)
	want := testutil.Clone(in)
	p.Process(got)
	c.Process(want)

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-7)
}

func TestParallelBlend(t *testing.T) {
	cfg := DefaultParallelConfig()
	cfg.Mix = 0.5
	p, _ := NewParallelCompressor(44100, cfg)
	c, _ := NewCompressor(44100, cfg.Compressor)

	in := testutil.DeterministicSine(150, 44100, 0.7, 8192)
	got := testutil.Clone(in)
	wet := testutil.Clone(in)
	p.Process(got)
	c.Process(wet)

	want := make([]float32, len(in))
	for i := range in {
		want[i] = float32(0.5*float64(in[i]) + 0.5*float64(wet[i]))
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-6)

	if testutil.Peak(got[4096:]) >= testutil.Peak(in[4096:]) {
		t.Fatal("parallel compression did not reduce peaks")
	}
}

func TestParallelStereoLinkAndBlockSizes(t *testing.T) {
	p, _ := NewParallelCompressor(48000, DefaultParallelConfig())

	left := testutil.Bursts(100, 48000, 0.9, 0.02, 1000, 12)
	right := testutil.Clone(left)

	// Uneven block sizes exercise scratch reuse.
	for start, size := 0, 64; start < len(left); start, size = start+size, size*2 {
		end := min(start+size, len(left))
		p.ProcessStereo(left[start:end], right[start:end])
	}

	testutil.RequireSliceNearlyEqual(t, left, right, 0)
}
