// Package runner executes the suites of a frozen registry and records the
// outcome of every test case.
//
// It provides functionality for:
//   - Running suites and cases strictly in registration order
//   - Setup and teardown hooks with suite-local failure isolation
//   - Converting panics into Error outcomes
//   - Optional per-case timeouts and run-wide cancellation
//   - Deriving a process exit code from a RunResult
package runner
