package harness

import (
	"fmt"
	"io"

	"github.com/notargets/kernelcheck/compare"
)

// Process exit codes. A failed verdict is not a crash, but it must not look
// like a pass to whatever runs the suite.
const (
	ExitPassed = 0
	ExitFailed = 1
	ExitError  = 2
)

// Result pairs a case with its outcome. Err is set when the case could not
// be judged at all.
type Result struct {
	Case    string
	Verdict compare.Verdict
	Err     error
}

// Suite is an ordered list of cases
type Suite struct {
	Cases []Case
}

// Add appends cases and returns the suite
func (s *Suite) Add(cases ...Case) *Suite {
	s.Cases = append(s.Cases, cases...)
	return s
}

// Run executes every case in order. A case that errors does not stop the
// cases after it.
func (s *Suite) Run(w io.Writer) Summary {
	var sum Summary
	for _, c := range s.Cases {
		v, err := Run(c, w)
		if err != nil && w != nil {
			fmt.Fprintf(w, "TEST ERROR: %s - %v\n", c.Name, err)
		}
		sum.add(Result{Case: c.Name, Verdict: v, Err: err})
	}
	return sum
}

// Summary aggregates results across a suite
type Summary struct {
	Results []Result
	Passed  int
	Failed  int
	Errored int
}

func (sum *Summary) add(r Result) {
	sum.Results = append(sum.Results, r)
	switch {
	case r.Err != nil:
		sum.Errored++
	case r.Verdict.Passed:
		sum.Passed++
	default:
		sum.Failed++
	}
}

// ExitCode maps the summary to a process status: errors outrank failures
func (sum Summary) ExitCode() int {
	switch {
	case sum.Errored > 0:
		return ExitError
	case sum.Failed > 0:
		return ExitFailed
	default:
		return ExitPassed
	}
}

func (sum Summary) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d errored", sum.Passed, sum.Failed, sum.Errored)
}
