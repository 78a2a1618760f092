package runner

// Exit codes derived from a RunResult.
const (
	// ExitSuccess indicates all cases passed and every setup succeeded
	ExitSuccess = 0

	// ExitTestFailure indicates one or more cases failed or errored
	ExitTestFailure = 1

	// ExitSetupFailure indicates a suite could not be initialized
	ExitSetupFailure = 2
)

// ExitCode maps a run to a process exit code. Setup failures take
// precedence over case failures. A nil result is treated as a setup failure.
func ExitCode(r *RunResult) int {
	if r == nil || len(r.FailedSetups) > 0 {
		return ExitSetupFailure
	}
	for _, c := range r.Results {
		if !c.Outcome.Passed() {
			return ExitTestFailure
		}
	}
	return ExitSuccess
}
