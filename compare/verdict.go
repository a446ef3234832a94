package compare

import (
	"fmt"
	"io"
	"strings"
)

// Mismatch is one coordinate where actual and expected differ
type Mismatch struct {
	Row, Col int
	Expected float64
	Actual   float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("(%d, %d): expected %v, got %v", m.Row, m.Col, m.Expected, m.Actual)
}

// Verdict is the outcome of comparing an actual buffer against a reference
type Verdict struct {
	Name       string
	Passed     bool
	Checked    int        // elements examined before the walk stopped
	Mismatches []Mismatch // first mismatch, or all of them up to the limit
	Truncated  int        // mismatches found beyond the limit
	Policy     string
	Checksum   uint64 // xxh3 of the actual buffer
}

// First returns the first mismatch in row-major order
func (v Verdict) First() (Mismatch, bool) {
	if len(v.Mismatches) == 0 {
		return Mismatch{}, false
	}
	return v.Mismatches[0], true
}

// Report writes the verdict the way the regression suite reads it:
// one TEST SUCCESSFUL or TEST FAILED line, then one line per reported mismatch.
func (v Verdict) Report(w io.Writer) error {
	if v.Passed {
		_, err := fmt.Fprintf(w, "TEST SUCCESSFUL: %s\n", v.Name)
		return err
	}
	var sb strings.Builder
	first, _ := v.First()
	sb.WriteString(fmt.Sprintf("TEST FAILED: %s - %s\n", v.Name, first))
	if len(v.Mismatches) > 1 {
		for _, m := range v.Mismatches[1:] {
			sb.WriteString(fmt.Sprintf("    %s\n", m))
		}
	}
	if v.Truncated > 0 {
		sb.WriteString(fmt.Sprintf("    ... %d more mismatches\n", v.Truncated))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Err returns a *MismatchError for a failed verdict and nil otherwise
func (v Verdict) Err() error {
	if v.Passed {
		return nil
	}
	return &MismatchError{Verdict: v}
}

// MismatchError carries a failed verdict through error returns
type MismatchError struct {
	Verdict Verdict
}

func (e *MismatchError) Error() string {
	first, _ := e.Verdict.First()
	n := len(e.Verdict.Mismatches) + e.Verdict.Truncated
	return fmt.Sprintf("%s: %d mismatch(es), first at %s", e.Verdict.Name, n, first)
}
