package meter

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/internal/testutil"
)

const loudnessRate = 48000.0

func newTestLoudness(t *testing.T) *Loudness {
	t.Helper()
	l, err := NewLoudness(loudnessRate)
	if err != nil {
		t.Fatalf("NewLoudness() error = %v", err)
	}
	return l
}

func TestNewLoudnessInvalidSampleRate(t *testing.T) {
	if _, err := NewLoudness(0); !errors.Is(err, core.ErrInvalidSampleRate) {
		t.Fatalf("NewLoudness(0) error = %v", err)
	}
}

// A full-scale 997 Hz sine in one channel reads -3.01 LUFS.
func TestLoudnessMonoReference(t *testing.T) {
	l := newTestLoudness(t)
	l.Process(testutil.DeterministicSine(997, loudnessRate, 1, int(loudnessRate*4)))

	const want = -3.01
	for name, got := range map[string]float64{
		"momentary":  l.Momentary(),
		"short-term": l.ShortTerm(),
		"integrated": l.Integrated(),
	} {
		if math.Abs(got-want) > 0.15 {
			t.Errorf("%s = %.3f LUFS, want %.2f", name, got, want)
		}
	}
}

func TestLoudnessStereoSumsPower(t *testing.T) {
	mono := newTestLoudness(t)
	stereo := newTestLoudness(t)

	sig := testutil.DeterministicSine(997, loudnessRate, 0.5, int(loudnessRate*4))
	mono.Process(sig)
	stereo.ProcessStereo(sig, testutil.Clone(sig))

	diff := stereo.Integrated() - mono.Integrated()
	if math.Abs(diff-10*math.Log10(2)) > 0.01 {
		t.Errorf("stereo - mono = %.3f LU, want 3.01", diff)
	}
}

func TestLoudnessSilence(t *testing.T) {
	l := newTestLoudness(t)
	l.ProcessStereo(make([]float32, 48000), make([]float32, 48000))

	if !math.IsInf(l.Momentary(), -1) || !math.IsInf(l.Integrated(), -1) {
		t.Errorf("silence: momentary %v, integrated %v", l.Momentary(), l.Integrated())
	}
}

func TestLoudnessGating(t *testing.T) {
	tests := []struct {
		name  string
		quiet float64
	}{
		{"absolute gate", 0.0001},
		{"relative gate", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoudness(t)
			l.Process(testutil.DeterministicSine(1000, loudnessRate, 1, int(loudnessRate*10)))
			loud := l.Integrated()

			l.Process(testutil.DeterministicSine(1000, loudnessRate, tt.quiet, int(loudnessRate*10)))
			if got := l.Integrated(); math.Abs(got-loud) > 0.2 {
				t.Errorf("integrated moved from %.3f to %.3f", loud, got)
			}
		})
	}
}

func TestLoudnessReset(t *testing.T) {
	l := newTestLoudness(t)
	l.Process(testutil.DeterministicSine(1000, loudnessRate, 1, int(loudnessRate)))
	l.Reset()

	if !math.IsInf(l.ShortTerm(), -1) || !math.IsInf(l.Integrated(), -1) {
		t.Errorf("after Reset: short-term %v, integrated %v", l.ShortTerm(), l.Integrated())
	}
}
