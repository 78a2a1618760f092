package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/suitekit/packages/core/config"
	"github.com/abdul-hamid-achik/suitekit/packages/history"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		dbPath     string
		configPath string
		limit      int
	)

	historyCmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show runs recorded with --history",
		Long: `Show recent runs from the history database, or the cases of one run.

Examples:
  suitekit history --db history.db
  suitekit history --db history.db --limit 5
  suitekit history --db history.db 3f0c7d7e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					return withExitCode(ExitConfigError, err)
				}
				dbPath = cfg.HistoryDB
			}
			if dbPath == "" {
				return withExitCode(ExitUsageError, errors.New("no history database (use --db or set historyDB in the config file)"))
			}

			store, err := history.Open(dbPath)
			if err != nil {
				return withExitCode(ExitConfigError, err)
			}
			defer store.Close()

			if len(args) == 1 {
				return showRun(cmd.Context(), cmd.OutOrStdout(), store, args[0])
			}
			return showRecent(cmd.Context(), cmd.OutOrStdout(), store, limit)
		},
	}

	historyCmd.Flags().StringVar(&dbPath, "db", getEnvString("SUITEKIT_HISTORY", ""), "History database path (env: SUITEKIT_HISTORY)")
	historyCmd.Flags().StringVar(&configPath, "config", getEnvString("SUITEKIT_CONFIG", ""), "Path to config file (env: SUITEKIT_CONFIG)")
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show, 0 for all")
	return historyCmd
}

func showRecent(ctx context.Context, w io.Writer, store *history.Store, limit int) error {
	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Run", "Started", "Total", "Passed", "Failed", "Errors", "Setup failures", "Duration", "Result"})
	for _, r := range runs {
		res := "PASS"
		if !r.Success {
			res = "FAIL"
		}
		t.AppendRow(table.Row{
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Total, r.Passed, r.Failed, r.Errored, r.SetupFailures, r.Duration.String(), res,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func showRun(ctx context.Context, w io.Writer, store *history.Store, runID string) error {
	cases, err := store.Cases(ctx, runID)
	if err != nil {
		if errors.Is(err, history.ErrRunNotFound) {
			return withExitCode(ExitUsageError, err)
		}
		return err
	}

	fmt.Fprintf(w, "Run %s\n", runID)
	for _, c := range cases {
		fmt.Fprintf(w, "  %s: %s\n", c.FullName(), c.Outcome)
		if c.Message != "" {
			fmt.Fprintf(w, "     %s\n", c.Message)
		}
	}
	return nil
}
