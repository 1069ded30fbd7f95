package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mastering/internal/testutil"
)

func TestNewCorrectorValidation(t *testing.T) {
	if _, err := NewCorrector(-1, DefaultCorrectorConfig()); err == nil {
		t.Fatal("expected sample rate error")
	}
	cfg := DefaultCorrectorConfig()
	cfg.Key = "X"
	if _, err := NewCorrector(testSampleRate, cfg); err == nil {
		t.Fatal("expected key error")
	}
	cfg = DefaultCorrectorConfig()
	cfg.Scale = "phrygian-ish"
	if _, err := NewCorrector(testSampleRate, cfg); err == nil {
		t.Fatal("expected scale error")
	}
}

func TestCorrectorConvergesTo440(t *testing.T) {
	c, err := NewCorrector(testSampleRate, CorrectorConfig{Key: "C", Scale: "chromatic", Speed: 1, Amount: 1})
	if err != nil {
		t.Fatal(err)
	}

	buf := testutil.DeterministicSine(442, testSampleRate, 0.5, int(2*testSampleRate))
	c.Process(buf)
	testutil.RequireFinite(t, buf)

	if math.Abs(c.DetectedHz()-442) > 1 {
		t.Fatalf("detected %v Hz, want 442", c.DetectedHz())
	}
	if math.Abs(c.TargetHz()-440) > 1e-9 {
		t.Fatalf("target %v Hz, want 440", c.TargetHz())
	}
	if math.Abs(c.AppliedRatio()-440.0/442.0) > 1e-3 {
		t.Fatalf("applied ratio %v", c.AppliedRatio())
	}

	d, err := NewDetector(testSampleRate, DefaultWindow)
	if err != nil {
		t.Fatal(err)
	}
	hz, ok := d.Detect(toFloat64(buf[len(buf)-d.Span():]))
	if !ok || math.Abs(hz-440) > 1 {
		t.Fatalf("output fundamental %v Hz (voiced %v), want 440", hz, ok)
	}
}

func TestCorrectorSlowSpeedGlides(t *testing.T) {
	c, err := NewCorrector(testSampleRate, CorrectorConfig{Key: "C", Scale: "chromatic", Speed: 0, Amount: 1})
	if err != nil {
		t.Fatal(err)
	}
	c.Process(testutil.DeterministicSine(452, testSampleRate, 0.5, int(testSampleRate/2)))

	target := 440.0 / 452.0
	r := c.Ratio()
	if !(r < 1 && r > target) {
		t.Fatalf("ratio %v should lie strictly between 1 and %v", r, target)
	}
}

func TestCorrectorAmountZeroPassesThrough(t *testing.T) {
	c, err := NewCorrector(testSampleRate, CorrectorConfig{Key: "C", Scale: "major", Speed: 1, Amount: 0})
	if err != nil {
		t.Fatal(err)
	}
	if c.Latency() != 0 {
		t.Fatalf("latency = %d", c.Latency())
	}
	in := testutil.DeterministicSine(455, testSampleRate, 0.5, 20000)
	buf := testutil.Clone(in)
	c.Process(buf)
	testutil.RequireSliceNearlyEqual(t, buf, in, 0)

	l, r := testutil.Clone(in), testutil.Clone(in)
	c.ProcessStereo(l, r)
	testutil.RequireSliceNearlyEqual(t, l, in, 0)
	testutil.RequireSliceNearlyEqual(t, r, in, 0)
}

func TestCorrectorStereoSharesRatio(t *testing.T) {
	c, err := NewCorrector(testSampleRate, CorrectorConfig{Key: "C", Scale: "chromatic", Speed: 1, Amount: 1})
	if err != nil {
		t.Fatal(err)
	}
	l := testutil.DeterministicSine(445, testSampleRate, 0.5, 30000)
	r := testutil.Clone(l)
	c.ProcessStereo(l, r)
	testutil.RequireSliceNearlyEqual(t, l, r, 0)
	if c.Latency() != c.shifters[0].Latency() {
		t.Fatalf("latency = %d", c.Latency())
	}
}

func TestCorrectorSetConfig(t *testing.T) {
	c, err := NewCorrector(testSampleRate, DefaultCorrectorConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetConfig(CorrectorConfig{Key: "D", Scale: "nope", Speed: 0.2, Amount: 0.4}); err == nil {
		t.Fatal("expected error")
	}
	if c.Config() != DefaultCorrectorConfig() {
		t.Fatalf("config changed on error: %+v", c.Config())
	}

	if err := c.SetConfig(CorrectorConfig{Key: "D", Scale: "minor", Speed: 3, Amount: math.NaN()}); err != nil {
		t.Fatal(err)
	}
	got := c.Config()
	if got.Speed != 1 || got.Amount != DefaultCorrectorConfig().Amount || got.Key != "D" {
		t.Fatalf("unexpected config %+v", got)
	}
}

func TestCorrectorReset(t *testing.T) {
	c, err := NewCorrector(testSampleRate, CorrectorConfig{Key: "C", Scale: "chromatic", Speed: 1, Amount: 1})
	if err != nil {
		t.Fatal(err)
	}
	c.Process(testutil.DeterministicSine(450, testSampleRate, 0.5, 10000))
	c.Reset()
	if c.Ratio() != 1 || c.DetectedHz() != 0 {
		t.Fatalf("state survived reset: ratio %v, detected %v", c.Ratio(), c.DetectedHz())
	}
}
