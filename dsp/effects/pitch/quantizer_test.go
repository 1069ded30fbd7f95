package pitch

import (
	"errors"
	"math"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		want int
		err  bool
	}{
		{name: "C", want: 0},
		{name: "c", want: 0},
		{name: "F#", want: 6},
		{name: "Bb", want: 10},
		{name: "bb", want: 10},
		{name: "Cb", want: 11},
		{name: "B#", want: 0},
		{name: " A ", want: 9},
		{name: "", err: true},
		{name: "H", err: true},
		{name: "C##", err: true},
		{name: "Cx", err: true},
	}
	for _, tc := range tests {
		got, err := ParseKey(tc.name)
		if tc.err {
			if !errors.Is(err, ErrUnknownKey) {
				t.Fatalf("%q: expected ErrUnknownKey, got %v", tc.name, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %d, %v; want %d", tc.name, got, err, tc.want)
		}
	}
}

func TestParseScale(t *testing.T) {
	for i, name := range scaleNames {
		got, err := ParseScale(name)
		if err != nil || got != Scale(i) {
			t.Fatalf("%q: got %v, %v", name, got, err)
		}
		if got.String() != name {
			t.Fatalf("String() = %q, want %q", got.String(), name)
		}
	}
	if got, err := ParseScale("Harmonic Minor"); err != nil || got != HarmonicMinor {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := ParseScale("lydian"); !errors.Is(err, ErrUnknownScale) {
		t.Fatalf("expected ErrUnknownScale, got %v", err)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		key, scale string
		inNote     float64
		wantNote   float64
	}{
		{key: "C", scale: "chromatic", inNote: 69.08, wantNote: 69},
		{key: "C", scale: "major", inNote: 70.2, wantNote: 71},
		{key: "C", scale: "major", inNote: 66.4, wantNote: 67},
		{key: "A", scale: "minor", inNote: 68.4, wantNote: 69},
		{key: "A", scale: "pentatonic_minor", inNote: 70.4, wantNote: 69},
		{key: "E", scale: "blues", inNote: 70.1, wantNote: 70},
		{key: "D", scale: "dorian", inNote: 71.3, wantNote: 71},
		{key: "G", scale: "mixolydian", inNote: 65.9, wantNote: 65},
		{key: "A", scale: "harmonic_minor", inNote: 67.7, wantNote: 68},
		{key: "G", scale: "pentatonic_major", inNote: 72.3, wantNote: 71},
	}
	for _, tc := range tests {
		q, err := NewQuantizer(tc.key, tc.scale)
		if err != nil {
			t.Fatal(err)
		}
		got := q.Quantize(MIDIToFrequency(tc.inNote))
		want := MIDIToFrequency(tc.wantNote)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("%s %s note %.1f: got %.3f Hz, want %.3f Hz", tc.key, tc.scale, tc.inNote, got, want)
		}
	}
}

func TestQuantizeInvalidFrequency(t *testing.T) {
	q, err := NewQuantizer("C", "major")
	if err != nil {
		t.Fatal(err)
	}
	for _, hz := range []float64{0, -10, math.Inf(1)} {
		if got := q.Quantize(hz); got != hz {
			t.Fatalf("Quantize(%v) = %v", hz, got)
		}
	}
}

func TestQuantizerSetKeepsStateOnError(t *testing.T) {
	q, err := NewQuantizer("D", "minor")
	if err != nil {
		t.Fatal(err)
	}
	if err := q.Set("D", "ionian-ish"); err == nil {
		t.Fatal("expected error")
	}
	if q.Root() != 2 || q.Scale() != Minor {
		t.Fatalf("state changed: root %d scale %v", q.Root(), q.Scale())
	}
}

func TestMIDIRoundTrip(t *testing.T) {
	if got := MIDIToFrequency(69); got != 440 {
		t.Fatalf("A4 = %v", got)
	}
	if got := FrequencyToMIDI(261.6255653005986); math.Abs(got-60) > 1e-9 {
		t.Fatalf("C4 note = %v", got)
	}
}
