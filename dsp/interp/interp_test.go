package interp

import "testing"

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLinear2(t *testing.T) {
	if got := Linear2(0.25, 2, 4); got != 2.5 {
		t.Fatalf("got %v want 2.5", got)
	}
	if got := Linear2(0, 2, 4); got != 2 {
		t.Fatalf("got %v want 2", got)
	}
}

func TestHermite4RingWraps(t *testing.T) {
	ring := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		pos  float64
		want float64
	}{
		{pos: 3, want: 3},
		{pos: 3.5, want: 3.5},
		{pos: 11, want: 3},
		{pos: -5, want: 3},
	}

	for _, tc := range tests {
		got := Hermite4Ring(ring, tc.pos)
		if diff := got - tc.want; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("pos=%v: got %v want %v", tc.pos, got, tc.want)
		}
	}
}
