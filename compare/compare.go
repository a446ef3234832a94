// Package compare judges a kernel's output buffer against a reference buffer.
//
// The default policy is exact: two elements match only when their quantized
// float64 representations are bit-for-bit identical, so +0 and -0 differ and
// a NaN matches only a NaN with the same payload. That is the right oracle for
// integer-valued fixtures. Kernels that compute floating point results must
// opt in to WithTolerance.
package compare

import (
	"math"

	"github.com/notargets/kernelcheck/buffer"
)

type config struct {
	tolerance *Tolerance
	all       bool
	limit     int
}

// Option adjusts how Compare walks and judges the buffers
type Option func(*config)

// WithTolerance replaces exact matching with tol
func WithTolerance(tol Tolerance) Option {
	return func(c *config) {
		c.tolerance = &tol
	}
}

// Exact restores bit-for-bit matching
func Exact() Option {
	return func(c *config) {
		c.tolerance = nil
	}
}

// AllMismatches keeps walking after the first mismatch and records up to
// limit of them. A limit <= 0 records every mismatch.
func AllMismatches(limit int) Option {
	return func(c *config) {
		c.all = true
		c.limit = limit
	}
}

// Compare walks actual and expected in row-major order and returns the
// verdict for the test called name. Buffers must have identical shape and
// element type; otherwise a *buffer.ShapeMismatchError is returned and no
// element is compared.
func Compare(name string, actual, expected *buffer.Buffer, opts ...Option) (Verdict, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := actual.Validate("compare actual"); err != nil {
		return Verdict{}, err
	}
	if err := expected.Validate("compare expected"); err != nil {
		return Verdict{}, err
	}

	ar, ac := actual.Dims()
	er, ec := expected.Dims()
	if ar != er || ac != ec || actual.DataType() != expected.DataType() {
		return Verdict{}, &buffer.ShapeMismatchError{
			Op:    "compare " + name,
			A:     [2]int{ar, ac},
			B:     [2]int{er, ec},
			TypeA: actual.DataType(),
			TypeB: expected.DataType(),
		}
	}

	equal := exactEqual
	policy := "exact"
	if cfg.tolerance != nil {
		equal = cfg.tolerance.NearEqual
		policy = cfg.tolerance.String()
	}

	v := Verdict{Name: name, Policy: policy}
	got, want := actual.Raw(), expected.Raw()

walk:
	for r := 0; r < ar; r++ {
		row := r * ac
		for c := 0; c < ac; c++ {
			v.Checked++
			if equal(got[row+c], want[row+c]) {
				continue
			}
			if cfg.all && cfg.limit > 0 && len(v.Mismatches) >= cfg.limit {
				v.Truncated++
				continue
			}
			v.Mismatches = append(v.Mismatches, Mismatch{
				Row:      r,
				Col:      c,
				Expected: want[row+c],
				Actual:   got[row+c],
			})
			if !cfg.all {
				break walk
			}
		}
	}
	v.Passed = len(v.Mismatches) == 0

	sum, err := actual.Checksum()
	if err != nil {
		return Verdict{}, err
	}
	v.Checksum = sum
	return v, nil
}

func exactEqual(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}
