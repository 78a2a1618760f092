package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/suitekit/packages/core/registry"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// BuildFunc registers the suites of a run. It is called once per command
// with a fresh registry.
type BuildFunc func(*registry.Registry) error

// exitError carries the process exit code of a failed command. A nil err
// means the command already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// NewRootCmd assembles the command tree.
func NewRootCmd(build BuildFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "suitekit",
		Short: "Run registered test suites and report the results.",
		Long: `suitekit runs the test suites compiled into this binary, one after
another, prints a console report and writes a machine-readable
report file. The exit code is 0 when every case passed and every
suite initialized.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd(build))
	rootCmd.AddCommand(newListCmd(build))
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(v, bt string, build BuildFunc) int {
	version = v
	buildTime = bt
	return execute(NewRootCmd(build), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(rootCmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
		}
		return exitErr.code
	}

	// Everything else comes from cobra's argument and flag parsing
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", rootCmd.CommandPath())
	return ExitUsageError
}
