package runner

import (
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// CaseResult is the recorded outcome of one test case.
type CaseResult struct {
	Suite    string
	Case     string
	Outcome  suite.Outcome
	Duration time.Duration
	// Synthetic marks results that do not come from a case body, such as a
	// failed teardown.
	Synthetic bool
}

// FullName returns "suite.case".
func (c CaseResult) FullName() string {
	return c.Suite + "." + c.Case
}

// SuiteFailure records a suite whose setup failed.
type SuiteFailure struct {
	Suite   string
	Message string
	Err     error
}

// RunResult is the snapshot of one Execute call.
type RunResult struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	Results      []CaseResult
	FailedSetups []SuiteFailure
}

// SuitesFailedToInitialize returns the names of suites whose setup failed,
// in registration order.
func (r *RunResult) SuitesFailedToInitialize() []string {
	names := make([]string, 0, len(r.FailedSetups))
	for _, f := range r.FailedSetups {
		names = append(names, f.Suite)
	}
	return names
}

func (r *RunResult) Total() int { return len(r.Results) }

func (r *RunResult) Passed() int { return r.count(suite.KindPass) }

func (r *RunResult) Failed() int { return r.count(suite.KindFail) }

func (r *RunResult) Errored() int { return r.count(suite.KindError) }

func (r *RunResult) count(k suite.Kind) int {
	n := 0
	for _, c := range r.Results {
		if c.Outcome.Kind == k {
			n++
		}
	}
	return n
}

// Failures returns every non-pass result in run order.
func (r *RunResult) Failures() []CaseResult {
	var out []CaseResult
	for _, c := range r.Results {
		if !c.Outcome.Passed() {
			out = append(out, c)
		}
	}
	return out
}

// Success reports whether every case passed and every setup succeeded.
func (r *RunResult) Success() bool {
	return len(r.FailedSetups) == 0 && r.Passed() == len(r.Results)
}

// SuiteNames returns the distinct suite names that appear in the result,
// including suites whose setup failed, in first-seen order.
func (r *RunResult) SuiteNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, c := range r.Results {
		add(c.Suite)
	}
	for _, f := range r.FailedSetups {
		add(f.Suite)
	}
	return names
}
