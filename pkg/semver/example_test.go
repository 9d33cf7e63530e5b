package semver_test

import (
	"fmt"

	"github.com/matzehuels/jengatower/pkg/semver"
)

func ExampleNormalize() {
	for _, spec := range []string{"^16.1.1", "~2.0.0", "*", "1.x", "latest"} {
		v, ok := semver.Normalize(spec)
		fmt.Printf("%-8s -> %q %v\n", spec, v, ok)
	}
	// Output:
	// ^16.1.1  -> "16.1.1" true
	// ~2.0.0   -> "2.0.0" true
	// *        -> "" false
	// 1.x      -> "" false
	// latest   -> "" false
}
