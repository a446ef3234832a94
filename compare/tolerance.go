package compare

import (
	"fmt"
	"gonum.org/v1/gonum/floats/scalar"
	"math"
)

// Tolerance defines when two floating point elements count as equal.
// The zero value accepts only exactly equal values.
type Tolerance struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger magnitude
	RelTol float64

	// ULPTol is the maximum allowed distance in units in the last place
	ULPTol uint
}

// DefaultTolerance suits single kernels computed in float32
func DefaultTolerance() Tolerance {
	return Tolerance{AbsTol: 1e-7, RelTol: 1e-5, ULPTol: 4}
}

// RelaxedTolerance suits accumulated or reordered reductions
func RelaxedTolerance() Tolerance {
	return Tolerance{AbsTol: 1e-5, RelTol: 1e-3, ULPTol: 16}
}

func (t Tolerance) String() string {
	return fmt.Sprintf("tolerance(abs=%g rel=%g ulp=%d)", t.AbsTol, t.RelTol, t.ULPTol)
}

// NearEqual reports whether a and b are equal under t. NaN matches only NaN,
// infinities match only the same infinity.
func (t Tolerance) NearEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	if scalar.EqualWithinAbsOrRel(a, b, t.AbsTol, t.RelTol) {
		return true
	}
	return t.ULPTol > 0 && scalar.EqualWithinULP(a, b, t.ULPTol)
}
