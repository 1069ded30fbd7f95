//go:build !fastmath

package core

import "math"

// ln10Div20 converts dB to natural-log amplitude: ln(10) / 20.
const ln10Div20 = 0.11512925464970228

func mathExp(x float64) float64 {
	return math.Exp(x)
}

func mathLog(x float64) float64 {
	return math.Log(x)
}
