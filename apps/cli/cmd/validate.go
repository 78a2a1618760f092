package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/suitekit/packages/output"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <report.json>...",
		Short: "Validate JSON reports against the report schema",
		Long: `Check that JSON report files match the schema of the json report format.

Examples:
  suitekit validate suitekit-results.json
  suitekit validate old.json new.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: validateCommand,
	}
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, file := range args {
		if err := validateReportFile(file); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return withExitCode(ExitTestFailure, errors.New("validation failed"))
	}
	return nil
}

func validateReportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return output.ValidateJSONReport(data)
}
