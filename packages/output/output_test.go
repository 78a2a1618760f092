package output

import (
	"errors"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// arithResult is the run of an "Arith" suite with one passing and one
// failing case.
func arithResult() *runner.RunResult {
	return &runner.RunResult{
		ID:        "3f0c7d7e-0000-4000-8000-000000000001",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  15 * time.Millisecond,
		Results: []runner.CaseResult{
			{Suite: "Arith", Case: "add", Outcome: suite.Pass(), Duration: 5 * time.Millisecond},
			{Suite: "Arith", Case: "sub", Outcome: suite.Fail("expected 2 got 3"), Duration: 10 * time.Millisecond},
		},
	}
}

// mixedResult covers every kind of entry a run can contain.
func mixedResult() *runner.RunResult {
	r := arithResult()
	r.Results = append(r.Results,
		runner.CaseResult{Suite: "Arith", Case: "div", Outcome: suite.Errored(errors.New("panic: division by zero")), Duration: time.Millisecond},
		runner.CaseResult{Suite: "Arith", Case: "teardown", Outcome: suite.Errored(errors.New("leak")), Synthetic: true},
	)
	r.FailedSetups = []runner.SuiteFailure{{Suite: "DB", Message: "no database"}}
	return r
}
