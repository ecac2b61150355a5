package fastmath_test

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/fastmath"
)

func ExampleTanh() {
	for _, x := range []float32{-1, 0, 0.5, 8} {
		fmt.Printf("%.4f\n", fastmath.Tanh(x))
	}
	// Output:
	// -0.7616
	// 0.0000
	// 0.4621
	// 1.0000
}

func ExampleNonZero() {
	fmt.Println(fastmath.NonZero(0), fastmath.NonZero(-0.0), fastmath.NonZero(1e-30))
	// Output: false false true
}
