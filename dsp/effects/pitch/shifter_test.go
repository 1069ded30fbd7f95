package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestShifterUnityIsDelayedIdentity(t *testing.T) {
	s := NewShifter()
	in := testutil.DeterministicNoise(11, 0.5, 20000)
	out := testutil.Clone(in)
	s.Process(out)

	lat := s.Latency()
	for i := lat + GrainSize; i < len(out); i++ {
		if d := math.Abs(float64(out[i] - in[i-lat])); d > 1e-5 {
			t.Fatalf("sample %d: got %v want %v", i, out[i], in[i-lat])
		}
	}
}

func TestShifterRatioClamp(t *testing.T) {
	s := NewShifter()
	s.SetRatio(5)
	if s.Ratio() != MaxRatio {
		t.Fatalf("ratio = %v", s.Ratio())
	}
	s.SetRatio(0.1)
	if s.Ratio() != MinRatio {
		t.Fatalf("ratio = %v", s.Ratio())
	}
	s.SetRatio(math.NaN())
	if s.Ratio() != MinRatio {
		t.Fatalf("NaN changed ratio to %v", s.Ratio())
	}
}

func TestShifterOctaves(t *testing.T) {
	tests := []struct {
		name   string
		inHz   float64
		ratio  float64
		wantHz float64
	}{
		{name: "up", inHz: 220, ratio: 2, wantHz: 440},
		{name: "down", inHz: 440, ratio: 0.5, wantHz: 220},
		{name: "fifth", inHz: 200, ratio: 1.5, wantHz: 300},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewShifter()
			s.SetRatio(tc.ratio)
			s.SetPeriod(testSampleRate / tc.inHz)

			buf := testutil.DeterministicSine(tc.inHz, testSampleRate, 0.5, int(testSampleRate))
			s.Process(buf)
			testutil.RequireFinite(t, buf)

			d, err := NewDetector(testSampleRate, DefaultWindow)
			if err != nil {
				t.Fatal(err)
			}
			tail := toFloat64(buf[len(buf)-d.Span():])
			hz, ok := d.Detect(tail)
			if !ok || math.Abs(hz-tc.wantHz) > 2 {
				t.Fatalf("detected %v Hz (voiced %v), want %v", hz, ok, tc.wantHz)
			}
		})
	}
}

func TestShifterNonFiniteInput(t *testing.T) {
	s := NewShifter()
	s.SetRatio(1.3)
	buf := testutil.DeterministicSine(300, testSampleRate, 0.5, 8192)
	buf[10] = float32(math.NaN())
	buf[500] = float32(math.Inf(-1))
	s.Process(buf)
	testutil.RequireFinite(t, buf)
}

func TestShifterReset(t *testing.T) {
	s := NewShifter()
	s.Process(testutil.DeterministicNoise(1, 0.5, 8192))
	s.Reset()
	buf := make([]float32, 8192)
	s.Process(buf)
	if p := testutil.Peak(buf); p != 0 {
		t.Fatalf("output after reset: peak %v", p)
	}
}
