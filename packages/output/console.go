package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
	"github.com/abdul-hamid-achik/suitekit/packages/export/metrics"
	"github.com/fatih/color"
)

// Verbosity selects how much the console formatter prints
type Verbosity int

const (
	// Quiet prints only the summary line
	Quiet Verbosity = iota
	// Verbose prints one line per case followed by a failure recap
	Verbose
)

// ParseVerbosity converts "quiet" or "verbose" into a Verbosity
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet":
		return Quiet, nil
	case "", "verbose":
		return Verbose, nil
	}
	return Verbose, fmt.Errorf("unknown verbosity %q (use quiet or verbose)", s)
}

type ConsoleFormatter struct {
	writer       io.Writer
	verbosity    Verbosity
	stackTraces  bool
	summaryTable bool
	noColor      bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer:    os.Stdout,
		verbosity: Verbose,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbosity(v Verbosity) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbosity = v
	}
}

// WithStackTraces prints the full error chain, including recovered panic
// stacks, under each errored case in the recap.
func WithStackTraces(st bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.stackTraces = st
	}
}

// WithSummaryTable appends a per-suite table after the recap
func WithSummaryTable(t bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.summaryTable = t
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	if f.verbosity == Quiet {
		fmt.Fprintln(f.writer, f.summaryLine(result))
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Run: "+result.ID))

	for _, r := range result.Results {
		fmt.Fprintf(f.writer, "  %s: %s\n", r.FullName(), f.label(r.Outcome.Kind))
	}
	for _, s := range result.FailedSetups {
		fmt.Fprintf(f.writer, "  %s: %s\n", s.Suite, red("SETUP FAILED"))
	}

	failures := result.Failures()
	if len(failures) > 0 {
		fmt.Fprintf(f.writer, "\n%s\n", bold("Failures:"))
		for i, r := range failures {
			fmt.Fprintf(f.writer, "  %d. %s: %s\n", i+1, r.FullName(), f.label(r.Outcome.Kind))
			if r.Outcome.Message != "" {
				fmt.Fprintf(f.writer, "     %s\n", r.Outcome.Message)
			}
			if f.stackTraces && r.Outcome.Err != nil {
				fmt.Fprintf(f.writer, "%s\n", indent(fmt.Sprintf("%+v", r.Outcome.Err), "       "))
			}
		}
	}

	if len(result.FailedSetups) > 0 {
		fmt.Fprintf(f.writer, "\n%s\n", bold("Suites failed to initialize:"))
		for _, s := range result.FailedSetups {
			fmt.Fprintf(f.writer, "  - %s\n", s.Suite)
			fmt.Fprintf(f.writer, "     %s\n", s.Message)
			if f.stackTraces && s.Err != nil {
				fmt.Fprintf(f.writer, "%s\n", indent(fmt.Sprintf("%+v", s.Err), "       "))
			}
		}
	}

	if f.summaryTable {
		fmt.Fprintln(f.writer)
		fmt.Fprint(f.writer, RenderSuiteTable(result))
	}

	fmt.Fprintf(f.writer, "\n%s\n", f.summaryLine(result))

	stats := metrics.Summarize(result)
	fmt.Fprintf(f.writer, "Time:  %s", formatDuration(result.Duration))
	if stats.Count > 0 {
		fmt.Fprintf(f.writer, " %s", cyan(fmt.Sprintf("(p50 %s, p95 %s, max %s)",
			formatDuration(stats.P50), formatDuration(stats.P95), formatDuration(stats.Max))))
	}
	fmt.Fprintf(f.writer, "\n\n")
}

// summaryLine renders "Tests: 1 passed, 1 failed, 2 total" plus setup failures
func (f *ConsoleFormatter) summaryLine(result *runner.RunResult) string {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	var b strings.Builder
	b.WriteString("Tests: ")
	if n := result.Passed(); n > 0 {
		fmt.Fprintf(&b, "%s, ", green(fmt.Sprintf("%d passed", n)))
	}
	if n := result.Failed(); n > 0 {
		fmt.Fprintf(&b, "%s, ", red(fmt.Sprintf("%d failed", n)))
	}
	if n := result.Errored(); n > 0 {
		fmt.Fprintf(&b, "%s, ", yellow(fmt.Sprintf("%d errors", n)))
	}
	fmt.Fprintf(&b, "%d total", result.Total())
	if n := len(result.FailedSetups); n > 0 {
		word := "suites"
		if n == 1 {
			word = "suite"
		}
		fmt.Fprintf(&b, "; %s", red(fmt.Sprintf("%d %s failed to initialize", n, word)))
	}
	return b.String()
}

func (f *ConsoleFormatter) label(k suite.Kind) string {
	switch k {
	case suite.KindPass:
		return color.New(color.FgGreen).Sprint(k.String())
	case suite.KindFail:
		return color.New(color.FgRed).Sprint(k.String())
	default:
		return color.New(color.FgYellow).Sprint(k.String())
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	if f.verbosity == Quiet {
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("suitekit"), version)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
