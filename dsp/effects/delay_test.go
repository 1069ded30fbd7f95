package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestNoteDivisionMs(t *testing.T) {
	tests := []struct {
		bpm      float64
		division string
		want     float64
		wantErr  bool
	}{
		{120, "1/4", 500, false},
		{120, "1/8", 250, false},
		{120, "1/1", 2000, false},
		{120, "1/32", 62.5, false},
		{120, "1/8d", 375, false},
		{120, "1/4t", 1000.0 / 3, false},
		{90, "1/16", 166.66666666666666, false},
		{120, "1/3", 0, true},
		{0, "1/4", 0, true},
		{math.NaN(), "1/4", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.division, func(t *testing.T) {
			got, err := NoteDivisionMs(tt.bpm, tt.division)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NoteDivisionMs(%v, %q) error = %v", tt.bpm, tt.division, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("NoteDivisionMs(%v, %q) = %v, want %v", tt.bpm, tt.division, got, tt.want)
			}
		})
	}
}

func TestDelayImpulseTiming(t *testing.T) {
	d, err := NewDelay(48000, DelayConfig{TimeMs: 10, Feedback: 0.5, Mix: 1, Damping: 0})
	if err != nil {
		t.Fatalf("NewDelay() error = %v", err)
	}

	buf := testutil.Impulse(2000, 0)
	d.Process(buf)

	if buf[0] != 0 {
		t.Fatalf("wet-only output at 0 = %v", buf[0])
	}
	if math.Abs(float64(buf[480])-1) > 1e-6 {
		t.Fatalf("first repeat = %v, want 1", buf[480])
	}
	if math.Abs(float64(buf[960])-0.5) > 1e-6 {
		t.Fatalf("second repeat = %v, want 0.5", buf[960])
	}
}

func TestDelayMixZeroIsIdentity(t *testing.T) {
	d, _ := NewDelay(44100, DelayConfig{TimeMs: 120, Feedback: 0.9, Mix: 0, Damping: 0.5})

	in := testutil.DeterministicNoise(6, 0.7, 20000)
	out := testutil.Clone(in)
	d.Process(out)

	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestDelayFeedbackCapped(t *testing.T) {
	d, _ := NewDelay(44100, DelayConfig{TimeMs: 5, Feedback: 3, Mix: 1})
	if got := d.Config().Feedback; got != maxDelayFeedback {
		t.Fatalf("Feedback = %v, want %v", got, maxDelayFeedback)
	}

	buf := testutil.Impulse(44100*4, 0)
	d.Process(buf)
	testutil.RequireFinite(t, buf)
	if tail := testutil.Peak(buf[len(buf)-4410:]); tail > 0.01 {
		t.Fatalf("feedback did not decay: tail peak %v", tail)
	}
}

func TestDelayDampingDarkensRepeats(t *testing.T) {
	const sr = 48000
	bright, _ := NewDelay(sr, DelayConfig{TimeMs: 20, Feedback: 0.8, Mix: 1, Damping: 0})
	dark, _ := NewDelay(sr, DelayConfig{TimeMs: 20, Feedback: 0.8, Mix: 1, Damping: 0.7})

	a := testutil.DeterministicSine(8000, sr, 0.5, sr/2)
	b := testutil.Clone(a)
	bright.Process(a)
	dark.Process(b)

	if testutil.Energy(b) >= testutil.Energy(a) {
		t.Fatalf("damped energy %v not below bright %v", testutil.Energy(b), testutil.Energy(a))
	}
}

func TestDelayNonFiniteInput(t *testing.T) {
	d, _ := NewDelay(48000, DelayConfig{TimeMs: 1, Feedback: 0.9, Mix: 0.5})

	buf := testutil.DeterministicNoise(1, 0.5, 1000)
	buf[10] = float32(math.NaN())
	buf[20] = float32(math.Inf(1))
	d.Process(buf)

	testutil.RequireFinite(t, buf)
}

func TestDelayTempoSync(t *testing.T) {
	d, _ := NewDelay(48000, DefaultDelayConfig())

	if err := d.SetTempo(120, "1/8"); err != nil {
		t.Fatalf("SetTempo() error = %v", err)
	}
	if got := d.Config().TimeMs; got != 250 {
		t.Fatalf("TimeMs = %v, want 250", got)
	}
	if got := d.DelaySamples(); got != 12000 {
		t.Fatalf("DelaySamples() = %v, want 12000", got)
	}

	if err := d.SetTempo(120, "1/5"); err == nil {
		t.Fatal("expected error for unknown division")
	}
	if got := d.Config().TimeMs; got != 250 {
		t.Fatalf("failed SetTempo changed time to %v", got)
	}
}

func TestDelayDivisionRequiresTempo(t *testing.T) {
	for _, bpm := range []float64{0, -90, math.NaN()} {
		d, _ := NewDelay(48000, DefaultDelayConfig())

		err := d.SetConfig(DelayConfig{TimeMs: 300, Feedback: 0.3, Mix: 0.2, TempoBPM: bpm, Division: "1/4"})
		if !errors.Is(err, ErrInvalidTempo) {
			t.Fatalf("tempo %v: SetConfig() error = %v, want ErrInvalidTempo", bpm, err)
		}
		if got := d.Config(); got.TimeMs != 250 || got.Division != "" {
			t.Fatalf("tempo %v: rejected config applied: %+v", bpm, got)
		}
	}

	if _, err := NewDelay(48000, DelayConfig{Division: "1/8"}); !errors.Is(err, ErrInvalidTempo) {
		t.Fatalf("NewDelay() without tempo error = %v", err)
	}
}

func TestDelayStereoIndependent(t *testing.T) {
	d, _ := NewDelay(48000, DelayConfig{TimeMs: 5, Feedback: 0.3, Mix: 0.5})

	left := testutil.Impulse(1000, 0)
	right := make([]float32, 1000)
	d.ProcessStereo(left, right)

	for i, v := range right {
		if v != 0 {
			t.Fatalf("right channel leaked %v at %d", v, i)
		}
	}
	if left[240] == 0 {
		t.Fatal("left repeat missing")
	}
}
