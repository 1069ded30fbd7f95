package interp

// Linear2 interpolates between x0 (t = 0) and x1 (t = 1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Hermite4Ring reads a ring buffer at fractional index pos with Hermite
// interpolation. pos is wrapped into the ring; ring must hold at least
// four samples.
func Hermite4Ring(ring []float64, pos float64) float64 {
	n := len(ring)
	i := int(pos)
	if pos < 0 && float64(i) != pos {
		i--
	}
	t := pos - float64(i)

	i %= n
	if i < 0 {
		i += n
	}

	xm1 := ring[(i-1+n)%n]
	x0 := ring[i]
	x1 := ring[(i+1)%n]
	x2 := ring[(i+2)%n]

	return Hermite4(t, xm1, x0, x1, x2)
}
