package cmd

import "github.com/abdul-hamid-achik/suitekit/packages/core/runner"

// Exit codes for the suitekit CLI
const (
	// ExitSuccess indicates all tests passed
	ExitSuccess = runner.ExitSuccess

	// ExitTestFailure indicates one or more cases failed or errored. The
	// validate and diff commands also use it for a negative verdict.
	ExitTestFailure = runner.ExitTestFailure

	// ExitSetupError indicates a suite failed to initialize or the registry
	// could not be built
	ExitSetupError = runner.ExitSetupFailure

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
