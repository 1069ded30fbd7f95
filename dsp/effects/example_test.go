package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/effects"
)

func ExampleNoteDivisionMs() {
	for _, div := range []string{"1/4", "1/8d", "1/8t"} {
		ms, err := effects.NoteDivisionMs(120, div)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%-5s %.1f ms\n", div, ms)
	}
	// Output:
	// 1/4   500.0 ms
	// 1/8d  375.0 ms
	// 1/8t  166.7 ms
}

func ExampleClipper() {
	c := effects.NewClipper(effects.ClipperConfig{Threshold: 0.5, Hardness: 1})

	for _, x := range []float64{0.25, 0.75, -4} {
		fmt.Printf("%.2f -> %.2f\n", x, c.ProcessSample(x))
	}
	// Output:
	// 0.25 -> 0.25
	// 0.75 -> 0.50
	// -4.00 -> -0.50
}
