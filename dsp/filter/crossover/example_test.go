package crossover_test

import (
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/filter/crossover"
)

func ExampleNew() {
	xo, _ := crossover.New(1000, 48000)

	fmt.Printf("freq=%.0f Hz\n", xo.Freq())
	fmt.Printf("LP at 100 Hz:  %.2f dB\n", xo.LowMagnitudeDB(100))
	fmt.Printf("LP at 1000 Hz: %.2f dB\n", xo.LowMagnitudeDB(1000))
	fmt.Printf("HP at 1000 Hz: %.2f dB\n", xo.HighMagnitudeDB(1000))
	fmt.Printf("HP at 10 kHz:  %.2f dB\n", xo.HighMagnitudeDB(10000))
	// Output:
	// freq=1000 Hz
	// LP at 100 Hz:  -0.00 dB
	// LP at 1000 Hz: -6.02 dB
	// HP at 1000 Hz: -6.02 dB
	// HP at 10 kHz:  -0.00 dB
}

func ExampleCrossover_ProcessSample() {
	xo, _ := crossover.New(1000, 48000)

	// For an allpass crossover, the total energy of the summed impulse
	// response equals the input energy (1.0).
	energy := 0.0

	for i := range 4096 {
		x := 0.0
		if i == 0 {
			x = 1.0
		}

		lo, hi := xo.ProcessSample(x)
		s := lo + hi
		energy += s * s
	}

	fmt.Printf("allpass impulse energy=%.4f\n", energy)
	// Output:
	// allpass impulse energy=1.0000
}

func ExampleCrossover_Complement() {
	xo, _ := crossover.New(1000, 48000)

	maxErr := 0.0
	for i := range 4096 {
		x := 0.0
		if i == 0 {
			x = 1.0
		}

		lo, hi := xo.Complement(x)
		maxErr = max(maxErr, lo+hi-x, x-lo-hi)
	}

	fmt.Printf("reconstruction error below 1e-12: %v\n", maxErr < 1e-12)
	// Output:
	// reconstruction error below 1e-12: true
}
