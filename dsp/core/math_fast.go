//go:build fastmath

package core

import "github.com/meko-christian/algo-approx"

// ln10Div20 converts dB to natural-log amplitude: ln(10) / 20.
const ln10Div20 = 0.11512925464970228

// mathExp uses the algo-approx exponential.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}

func mathLog(x float64) float64 {
	return approx.FastLog(x)
}
