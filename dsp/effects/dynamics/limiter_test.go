package dynamics

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestNewLimiterInvalidSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
		if _, err := NewLimiter(sr, DefaultLimiterConfig()); err == nil {
			t.Errorf("NewLimiter(%v) expected error", sr)
		}
	}
}

func TestLimiterCeiling(t *testing.T) {
	tests := []struct {
		name string
		cfg  LimiterConfig
	}{
		{"default", DefaultLimiterConfig()},
		{"no lookahead", LimiterConfig{ThresholdDB: -1, ReleaseMs: 20, LookaheadMs: 0}},
		{"long lookahead fast release", LimiterConfig{ThresholdDB: -6, ReleaseMs: 1, LookaheadMs: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLimiter(44100, tt.cfg)
			if err != nil {
				t.Fatalf("NewLimiter() error = %v", err)
			}

			buf := testutil.DeterministicNoise(11, 10, 44100)
			l.Process(buf)

			ceiling := core.DBToLinear(tt.cfg.ThresholdDB)
			testutil.RequireFinite(t, buf)
			testutil.RequirePeakAtMost(t, buf, ceiling+1e-6)
			testutil.RequirePeakAtMost(t, buf, 1.0)
		})
	}
}

func TestLimiterLatency(t *testing.T) {
	l, _ := NewLimiter(48000, LimiterConfig{ThresholdDB: -0.3, ReleaseMs: 50, LookaheadMs: 5})
	if got := l.Latency(); got != 240 {
		t.Fatalf("Latency() = %d, want 240", got)
	}

	buf := make([]float32, 512)
	buf[0] = 0.25
	l.Process(buf)

	for i, v := range buf {
		want := float32(0)
		if i == 240 {
			want = 0.25
		}
		if v != want {
			t.Fatalf("index %d = %v, want %v", i, v, want)
		}
	}
}

func TestLimiterReducesBeforePeak(t *testing.T) {
	l, _ := NewLimiter(48000, LimiterConfig{ThresholdDB: -6, ReleaseMs: 100, LookaheadMs: 5})
	lat := l.Latency()
	ceiling := core.DBToLinear(-6)

	buf := testutil.DC(0.4, 2000)
	for i := 1000; i < len(buf); i++ {
		buf[i] = 2
	}
	l.Process(buf)

	// The last quiet sample leaves the delay line while the loud step is
	// already in view, so it must carry the full reduction.
	got := float64(buf[999+lat])
	want := 0.4 * ceiling / 2
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("pre-peak sample = %v, want %v", got, want)
	}
	if peak := testutil.Peak(buf); peak > ceiling+1e-6 {
		t.Fatalf("peak %v above ceiling %v", peak, ceiling)
	}
}

func TestLimiterRelease(t *testing.T) {
	l, _ := NewLimiter(48000, LimiterConfig{ThresholdDB: -6, ReleaseMs: 10, LookaheadMs: 1})

	buf := testutil.DC(2, 480)
	l.Process(buf)
	if l.GainReductionDB() > -11 {
		t.Fatalf("GainReductionDB() = %v, want about -12", l.GainReductionDB())
	}

	quiet := testutil.DC(0.1, 48000)
	l.Process(quiet)
	if gr := l.GainReductionDB(); gr < -0.01 {
		t.Fatalf("gain did not recover: %v dB", gr)
	}
}

func TestLimiterStereoLink(t *testing.T) {
	l, _ := NewLimiter(44100, DefaultLimiterConfig())

	left := testutil.DeterministicNoise(5, 3, 8192)
	right := testutil.Clone(left)
	l.ProcessStereo(left, right)

	testutil.RequireSliceNearlyEqual(t, left, right, 0)
}

func TestLimiterBelowThresholdIsDelayedIdentity(t *testing.T) {
	l, _ := NewLimiter(44100, LimiterConfig{ThresholdDB: 0, ReleaseMs: 50, LookaheadMs: 2})
	lat := l.Latency()

	in := testutil.DeterministicSine(440, 44100, 0.5, 4096)
	out := testutil.Clone(in)
	l.Process(out)

	testutil.RequireSliceNearlyEqual(t, out[lat:], in[:len(in)-lat], 0)
}

func TestLimiterSetConfigLookahead(t *testing.T) {
	l, _ := NewLimiter(48000, DefaultLimiterConfig())

	l.SetConfig(LimiterConfig{ThresholdDB: -1, ReleaseMs: 50, LookaheadMs: 100})
	if got, want := l.Latency(), int(math.Ceil(maxLimiterLookaheadMs*48)); got != want {
		t.Fatalf("Latency() = %d, want clamp to %d", got, want)
	}

	l.SetConfig(LimiterConfig{ThresholdDB: -1, ReleaseMs: 50, LookaheadMs: math.NaN()})
	if got := l.Config().LookaheadMs; got != maxLimiterLookaheadMs {
		t.Fatalf("NaN lookahead changed config to %v", got)
	}
}
