// Package constraints provides the built-in constraint factories.
//
// Every validator treats null as a violation with a dedicated message and
// panics when handed a value outside its applicable kinds, which is a
// descriptor mistake rather than invalid input.
package constraints

import "github.com/reoring/structval"

// Catalog returns the built-in factories keyed by name.
func Catalog() map[string]structval.ConstraintFactory {
	out := map[string]structval.ConstraintFactory{}
	for _, f := range []structval.ConstraintFactory{Size(), NotEmpty(), NotBlank(), Pattern(), Range()} {
		out[f.Name()] = f
	}
	return out
}
