// Package cmd implements the suitekit CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the registered suites and write the reports
//   - list: Display the registered suites and their cases
//   - validate: Check a JSON report against the report schema
//   - diff: Compare two JSON reports
//   - history: Show runs recorded in the history database
//   - version: Show suitekit version information
//
// Flags of the run command default to SUITEKIT_* environment variables and
// fall back to values from a .suitekit.yaml config file.
package cmd
