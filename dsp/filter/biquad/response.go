package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) at freqHz.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w
	return num / den
}

// MagnitudeDB returns 20*log10|H(f)| for the filter's current coefficients.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	mag := cmplx.Abs(f.Response(freqHz, f.sampleRate))
	if mag < 1e-10 {
		mag = 1e-10
	}
	return 20 * math.Log10(mag)
}
