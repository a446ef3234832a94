// Package harness runs regression cases: allocate a reference and an output
// buffer, fill them with the expected value and a sentinel, run the kernel
// under test on the output and judge it against the reference.
package harness

import (
	"errors"
	"fmt"
	"io"

	"github.com/notargets/kernelcheck/buffer"
	"github.com/notargets/kernelcheck/compare"
	"github.com/notargets/kernelcheck/kernel"
)

// Parameters of the test_let_stmt fixture
const (
	LetStmtName      = "test_let_stmt"
	LetStmtRows      = 1000
	LetStmtCols      = 1000
	LetStmtReference = 20
	LetStmtSentinel  = 99
)

// Case is one data-driven regression fixture
type Case struct {
	Name       string
	Rows, Cols int
	DataType   buffer.DataType // Float64 when zero
	Reference  float64         // value every element must hold after the run
	Sentinel   float64         // initial output value, distinct from Reference
	Kernel     kernel.Kernel
	Options    []compare.Option
}

// LetStmtCase returns the test_let_stmt fixture for k. The original fixture
// stores bytes, so the element type is Uint8.
func LetStmtCase(k kernel.Kernel) Case {
	return Case{
		Name:      LetStmtName,
		Rows:      LetStmtRows,
		Cols:      LetStmtCols,
		DataType:  buffer.Uint8,
		Reference: LetStmtReference,
		Sentinel:  LetStmtSentinel,
		Kernel:    k,
	}
}

func (c Case) validate() error {
	if c.Name == "" {
		return errors.New("case has no name")
	}
	if c.Kernel == nil {
		return fmt.Errorf("case %s: no kernel", c.Name)
	}
	return nil
}

// Run executes the case and writes its report to w. Mismatches are a failed
// verdict with a nil error; allocation, shape and kernel errors are returned.
// Both buffers are released on every path.
func Run(c Case, w io.Writer) (compare.Verdict, error) {
	if err := c.validate(); err != nil {
		return compare.Verdict{}, err
	}
	dt := c.DataType
	if dt == 0 {
		dt = buffer.Float64
	}

	reference, err := buffer.Allocate(c.Rows, c.Cols, dt)
	if err != nil {
		return compare.Verdict{}, fmt.Errorf("case %s: reference: %w", c.Name, err)
	}
	defer reference.Free()
	if err := reference.Fill(c.Reference); err != nil {
		return compare.Verdict{}, fmt.Errorf("case %s: reference: %w", c.Name, err)
	}

	output, err := buffer.Allocate(c.Rows, c.Cols, dt)
	if err != nil {
		return compare.Verdict{}, fmt.Errorf("case %s: output: %w", c.Name, err)
	}
	defer output.Free()
	if err := output.Fill(c.Sentinel); err != nil {
		return compare.Verdict{}, fmt.Errorf("case %s: output: %w", c.Name, err)
	}

	if err := c.Kernel.Run(output); err != nil {
		return compare.Verdict{}, fmt.Errorf("case %s: kernel %s: %w", c.Name, c.Kernel.Name(), err)
	}

	verdict, err := compare.Compare(c.Name, output, reference, c.Options...)
	if err != nil {
		return compare.Verdict{}, err
	}
	if w != nil {
		if err := verdict.Report(w); err != nil {
			return verdict, fmt.Errorf("case %s: report: %w", c.Name, err)
		}
	}
	return verdict, nil
}
