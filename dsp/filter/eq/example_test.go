package eq_test

import (
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/filter/eq"
)

func ExampleSurgicalEQ_AddBand() {
	e, err := eq.NewSurgicalEQ(48000)
	if err != nil {
		panic(err)
	}

	e.AddBand(300, -6, 0.7)   // body cut: rejected
	e.AddBand(300, 6, 0.7)    // body boost: accepted
	e.AddBand(9000, -10, 0.7) // air cut: limited

	for _, b := range e.Bands() {
		fmt.Printf("%.0f Hz %+.1f dB\n", b.FrequencyHz, b.GainDB)
	}
	// Output:
	// 300 Hz +6.0 dB
	// 9000 Hz -3.0 dB
}
