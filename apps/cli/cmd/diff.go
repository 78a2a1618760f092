package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/suitekit/packages/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Comparison statuses
const (
	StatusFixed     = "fixed"
	StatusRegressed = "regressed"
	StatusUnchanged = "unchanged"
	StatusNew       = "new"
	StatusRemoved   = "removed"
)

type diffOptions struct {
	output           string
	threshold        string
	failOnRegression bool
}

func newDiffCmd() *cobra.Command {
	o := &diffOptions{}

	diffCmd := &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Compare two JSON reports",
		Long: `Compare two JSON reports case by case.

A case is fixed when it passes in the new report but not in the old one,
and regressed in the opposite direction. With --threshold, cases that got
slower by more than the given percentage are flagged too.

Examples:
  suitekit diff old.json new.json
  suitekit diff old.json new.json --output json
  suitekit diff old.json new.json --threshold 50% --fail-on-regression`,
		Args: cobra.ExactArgs(2),
		RunE: o.run,
	}

	diffCmd.Flags().StringVarP(&o.output, "output", "o", "console", "Output format: console, json")
	diffCmd.Flags().StringVar(&o.threshold, "threshold", "", "Flag cases slower by more than this percentage (e.g., 50%)")
	diffCmd.Flags().BoolVar(&o.failOnRegression, "fail-on-regression", false, "Exit with code 1 when a case regressed or exceeded the threshold")
	return diffCmd
}

// DiffResult holds the comparison of two reports
type DiffResult struct {
	File1       string           `json:"file1"`
	File2       string           `json:"file2"`
	Comparisons []CaseComparison `json:"comparisons"`
	Summary     DiffSummary      `json:"summary"`
}

// CaseComparison compares one case across both reports
type CaseComparison struct {
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Outcome1       string  `json:"outcome1,omitempty"`
	Outcome2       string  `json:"outcome2,omitempty"`
	Duration1      float64 `json:"duration1,omitempty"` // ms
	Duration2      float64 `json:"duration2,omitempty"` // ms
	DurationChange float64 `json:"durationChange,omitempty"`
	Slower         bool    `json:"slower,omitempty"`
}

// DiffSummary provides overall statistics
type DiffSummary struct {
	Total            int     `json:"total"`
	Fixed            int     `json:"fixed"`
	Regressed        int     `json:"regressed"`
	Unchanged        int     `json:"unchanged"`
	New              int     `json:"new"`
	Removed          int     `json:"removed"`
	Slower           int     `json:"slower"`
	SetupFailures1   int     `json:"setupFailures1"`
	SetupFailures2   int     `json:"setupFailures2"`
	TotalDuration1   float64 `json:"totalDuration1"`
	TotalDuration2   float64 `json:"totalDuration2"`
	ThresholdPercent float64 `json:"thresholdPercent,omitempty"`
}

// HasRegressions reports whether the new report is worse than the old one
func (s DiffSummary) HasRegressions() bool {
	return s.Regressed > 0 || s.Slower > 0 || s.SetupFailures2 > s.SetupFailures1
}

func (o *diffOptions) run(cmd *cobra.Command, args []string) error {
	file1, file2 := args[0], args[1]

	report1, err := output.LoadJSONReport(file1)
	if err != nil {
		return withExitCode(ExitUsageError, fmt.Errorf("failed to load %s: %w", file1, err))
	}
	report2, err := output.LoadJSONReport(file2)
	if err != nil {
		return withExitCode(ExitUsageError, fmt.Errorf("failed to load %s: %w", file2, err))
	}

	var threshold float64
	if o.threshold != "" {
		threshold, err = parseThreshold(o.threshold)
		if err != nil {
			return withExitCode(ExitUsageError, err)
		}
	}

	diff := compareReports(file1, file2, report1, report2, threshold)

	switch strings.ToLower(o.output) {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(diff); err != nil {
			return err
		}
	case "console", "":
		writeDiffConsole(cmd.OutOrStdout(), diff)
	default:
		return withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q (use console or json)", o.output))
	}

	if o.failOnRegression && diff.Summary.HasRegressions() {
		return withExitCode(ExitTestFailure, errors.New("regressions found"))
	}
	return nil
}

func parseThreshold(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q: %w", s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid threshold %q: must be positive", s)
	}
	return v, nil
}

func caseKey(t output.JSONTest) string {
	return t.Suite + "." + t.Case
}

// compareReports lists the cases of the new report in order, followed by
// the cases only the old report has.
func compareReports(file1, file2 string, report1, report2 *output.JSONReport, threshold float64) *DiffResult {
	diff := &DiffResult{
		File1: file1,
		File2: file2,
		Summary: DiffSummary{
			SetupFailures1:   len(report1.SetupFailures),
			SetupFailures2:   len(report2.SetupFailures),
			TotalDuration1:   report1.Duration,
			TotalDuration2:   report2.Duration,
			ThresholdPercent: threshold,
		},
	}

	old := make(map[string]output.JSONTest, len(report1.Tests))
	for _, t := range report1.Tests {
		old[caseKey(t)] = t
	}
	seen := make(map[string]bool, len(report2.Tests))

	for _, t2 := range report2.Tests {
		key := caseKey(t2)
		seen[key] = true

		comp := CaseComparison{
			Name:      key,
			Outcome2:  t2.Outcome,
			Duration2: t2.Duration,
		}

		t1, ok := old[key]
		if !ok {
			comp.Status = StatusNew
			diff.Summary.New++
			diff.Comparisons = append(diff.Comparisons, comp)
			continue
		}

		comp.Outcome1 = t1.Outcome
		comp.Duration1 = t1.Duration
		if t1.Duration > 0 {
			comp.DurationChange = ((t2.Duration - t1.Duration) / t1.Duration) * 100
		}

		passed1, passed2 := t1.Outcome == "pass", t2.Outcome == "pass"
		switch {
		case !passed1 && passed2:
			comp.Status = StatusFixed
			diff.Summary.Fixed++
		case passed1 && !passed2:
			comp.Status = StatusRegressed
			diff.Summary.Regressed++
		default:
			comp.Status = StatusUnchanged
			diff.Summary.Unchanged++
		}

		if threshold > 0 && comp.DurationChange > threshold {
			comp.Slower = true
			diff.Summary.Slower++
		}
		diff.Comparisons = append(diff.Comparisons, comp)
	}

	for _, t1 := range report1.Tests {
		key := caseKey(t1)
		if seen[key] {
			continue
		}
		diff.Comparisons = append(diff.Comparisons, CaseComparison{
			Name:      key,
			Status:    StatusRemoved,
			Outcome1:  t1.Outcome,
			Duration1: t1.Duration,
		})
		diff.Summary.Removed++
	}

	diff.Summary.Total = len(diff.Comparisons)
	return diff
}

func writeDiffConsole(w io.Writer, diff *DiffResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", bold("Report Comparison"))
	fmt.Fprintf(w, "  %s: %s\n", cyan("Old"), diff.File1)
	fmt.Fprintf(w, "  %s: %s\n\n", cyan("New"), diff.File2)

	s := diff.Summary
	fmt.Fprintf(w, "%s\n", bold("Summary"))
	fmt.Fprintf(w, "  Cases:      %d\n", s.Total)
	if s.Fixed > 0 {
		fmt.Fprintf(w, "  Fixed:      %s\n", green(s.Fixed))
	}
	if s.Regressed > 0 {
		fmt.Fprintf(w, "  Regressed:  %s\n", red(s.Regressed))
	}
	if s.Unchanged > 0 {
		fmt.Fprintf(w, "  Unchanged:  %d\n", s.Unchanged)
	}
	if s.New > 0 {
		fmt.Fprintf(w, "  New:        %s\n", cyan(s.New))
	}
	if s.Removed > 0 {
		fmt.Fprintf(w, "  Removed:    %s\n", yellow(s.Removed))
	}
	if s.SetupFailures1 > 0 || s.SetupFailures2 > 0 {
		fmt.Fprintf(w, "  Setup failures: %d → %d\n", s.SetupFailures1, s.SetupFailures2)
	}
	fmt.Fprintf(w, "  Duration:   %.0fms → %.0fms\n\n", s.TotalDuration1, s.TotalDuration2)

	fmt.Fprintf(w, "%s\n", bold("Cases"))
	for _, c := range diff.Comparisons {
		var symbol string
		paint := func(a ...interface{}) string { return fmt.Sprint(a...) }

		switch c.Status {
		case StatusFixed:
			symbol, paint = "↑", green
		case StatusRegressed:
			symbol, paint = "↓", red
		case StatusNew:
			symbol, paint = "+", cyan
		case StatusRemoved:
			symbol, paint = "-", yellow
		default:
			symbol = "="
		}

		switch c.Status {
		case StatusNew:
			fmt.Fprintf(w, "  %s %s  (new, %s)\n", paint(symbol), c.Name, c.Outcome2)
		case StatusRemoved:
			fmt.Fprintf(w, "  %s %s  (removed)\n", paint(symbol), c.Name)
		default:
			line := fmt.Sprintf("  %s %s  %s → %s  %.0fms → %.0fms",
				paint(symbol), c.Name, c.Outcome1, c.Outcome2, c.Duration1, c.Duration2)
			if c.Slower {
				line += " " + red(fmt.Sprintf("+%.1f%%", c.DurationChange))
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)

	if s.ThresholdPercent > 0 {
		if s.Slower == 0 {
			fmt.Fprintf(w, "%s Threshold check passed (max slowdown: %.1f%%)\n", green("✓"), s.ThresholdPercent)
		} else {
			fmt.Fprintf(w, "%s %d case(s) slowed down by more than %.1f%%\n", red("✗"), s.Slower, s.ThresholdPercent)
		}
	}
}
