package dynamics

import (
	"testing"

	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestDeEsserAmountZeroIsIdentity(t *testing.T) {
	cfg := DefaultDeEsserConfig()
	cfg.Amount = 0
	d, err := NewDeEsser(44100, cfg)
	if err != nil {
		t.Fatalf("NewDeEsser() error = %v", err)
	}

	in := testutil.DeterministicNoise(2, 0.9, 4096)
	out := testutil.Clone(in)
	d.Process(out)

	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestDeEsserTargetsSibilance(t *testing.T) {
	const sr = 44100

	tests := []struct {
		name     string
		freq     float64
		minRatio float64
		maxRatio float64
	}{
		{"sibilant 7 kHz", 7000, 0, 0.7},
		{"body 200 Hz", 200, 0.98, 1.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := NewDeEsser(sr, DeEsserConfig{FrequencyHz: 6500, ThresholdDB: -30, Amount: 0.5, Q: 2})

			in := testutil.DeterministicSine(tt.freq, sr, 0.5, sr/2)
			out := testutil.Clone(in)
			d.Process(out)

			ratio := rms(out[sr/4:]) / rms(in[sr/4:])
			if ratio < tt.minRatio || ratio > tt.maxRatio {
				t.Fatalf("output/input RMS = %v, want in [%v, %v]", ratio, tt.minRatio, tt.maxRatio)
			}
		})
	}
}

func TestDeEsserFullBandDucking(t *testing.T) {
	const sr = 44100
	d, _ := NewDeEsser(sr, DeEsserConfig{FrequencyHz: 6500, ThresholdDB: -30, Amount: 1, Q: 2})

	low := testutil.DeterministicSine(200, sr, 0.3, sr/2)
	high := testutil.DeterministicSine(7000, sr, 0.3, sr/2)
	mix := make([]float32, len(low))
	for i := range mix {
		mix[i] = low[i] + high[i]
	}
	d.Process(mix)

	// The low component is ducked along with the sibilant one.
	if gr := d.GainReductionDB(); gr > -3 {
		t.Fatalf("GainReductionDB() = %v, want full-band ducking", gr)
	}
	if rms(mix[sr/4:]) > 0.5*rms(low[sr/4:]) {
		t.Fatalf("mixed signal not ducked: %v", rms(mix[sr/4:]))
	}
}

func TestDeEsserStereoLink(t *testing.T) {
	d, _ := NewDeEsser(48000, DefaultDeEsserConfig())

	left := testutil.DeterministicNoise(4, 0.6, 8192)
	right := testutil.Clone(left)
	d.ProcessStereo(left, right)

	testutil.RequireSliceNearlyEqual(t, left, right, 0)
}
