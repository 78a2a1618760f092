package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/suitekit/packages/output"
	"github.com/spf13/cobra"
)

func newListCmd(build BuildFunc) *cobra.Command {
	var outputFile string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered suites and their cases",
		Long: `List every registered suite in registration order with its cases.

Examples:
  suitekit list
  suitekit list --output-file suites.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry(build, true)
			if err != nil {
				return withExitCode(ExitSetupError, err)
			}
			suites, err := reg.Suites()
			if err != nil {
				return withExitCode(ExitSetupError, err)
			}

			if outputFile != "" {
				if err := output.WriteListing(outputFile, suites); err != nil {
					return withExitCode(ExitTestFailure, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Listing written to %s\n", outputFile)
				return nil
			}
			return output.NewListingFormatter(output.ListingWithWriter(cmd.OutOrStdout())).FormatSuites(suites)
		},
	}

	listCmd.Flags().StringVarP(&outputFile, "output-file", "o", getEnvString("SUITEKIT_LISTING_FILE", ""), "Write the listing to a file (env: SUITEKIT_LISTING_FILE)")
	return listCmd
}
