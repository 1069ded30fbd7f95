package dynamics

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestGateAttenuatesQuietSignal(t *testing.T) {
	g, err := NewGate(48000, GateConfig{ThresholdDB: -60, RangeDB: -40, AttackMs: 1, ReleaseMs: 50})
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}

	in := testutil.DeterministicNoise(1, 0.0001, 4800)
	out := testutil.Clone(in)
	g.Process(out)

	if g.IsOpen() {
		t.Fatal("gate opened on signal below threshold")
	}
	for i := range out {
		want := float64(in[i]) * 0.01
		if math.Abs(float64(out[i])-want) > 1e-9 {
			t.Fatalf("index %d = %v, want %v", i, out[i], want)
		}
	}
}

func TestGateOpensOnLoudSignal(t *testing.T) {
	g, _ := NewGate(48000, GateConfig{ThresholdDB: -40, RangeDB: -60, AttackMs: 1, ReleaseMs: 50})

	in := testutil.DeterministicSine(440, 48000, 0.5, 9600)
	out := testutil.Clone(in)
	g.Process(out)

	if !g.IsOpen() {
		t.Fatal("gate did not open")
	}
	diff, _ := testutil.MaxAbsDiff(out[4800:], in[4800:])
	if diff > 1e-4 {
		t.Fatalf("open gate altered signal by %v", diff)
	}
}

func TestGateHysteresis(t *testing.T) {
	cfg := GateConfig{ThresholdDB: -20, RangeDB: -40, AttackMs: 1, ReleaseMs: 20}
	// 0.085 sits between threshold-3dB (0.0708) and threshold (0.1).
	between := testutil.DeterministicSine(1000, 48000, 0.085, 9600)

	opened, _ := NewGate(48000, cfg)
	opened.Process(testutil.DeterministicSine(1000, 48000, 0.5, 4800))
	opened.Process(testutil.Clone(between))
	if !opened.IsOpen() {
		t.Fatal("open gate closed inside the hysteresis band")
	}

	closed, _ := NewGate(48000, cfg)
	closed.Process(testutil.Clone(between))
	if closed.IsOpen() {
		t.Fatal("closed gate opened inside the hysteresis band")
	}

	opened.Process(testutil.DeterministicSine(1000, 48000, 0.01, 9600))
	if opened.IsOpen() {
		t.Fatal("gate did not close below the hysteresis band")
	}
	if gr := opened.GainReductionDB(); gr > -30 {
		t.Fatalf("closed gain = %v dB, want near -40", gr)
	}
}

func TestGateZeroRangeIsIdentity(t *testing.T) {
	g, _ := NewGate(44100, GateConfig{ThresholdDB: -20, RangeDB: 0, AttackMs: 1, ReleaseMs: 50})

	in := testutil.Bursts(300, 44100, 0.8, 0.001, 2000, 6)
	out := testutil.Clone(in)
	g.Process(out)

	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestGatePositiveRangeIsAttenuation(t *testing.T) {
	g, _ := NewGate(44100, GateConfig{ThresholdDB: -20, RangeDB: 30, AttackMs: 1, ReleaseMs: 50})
	if got := g.Config().RangeDB; got != -30 {
		t.Fatalf("RangeDB = %v, want -30", got)
	}
	if got := g.GainReductionDB(); math.Abs(got+30) > 1e-9 {
		t.Fatalf("initial gain = %v dB, want -30", got)
	}
}

func TestGateStereoLink(t *testing.T) {
	g, _ := NewGate(48000, DefaultGateConfig())

	left := testutil.Bursts(200, 48000, 0.7, 0.0001, 1200, 10)
	right := testutil.Clone(left)
	g.ProcessStereo(left, right)

	testutil.RequireSliceNearlyEqual(t, left, right, 0)
}
