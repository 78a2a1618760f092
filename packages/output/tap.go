package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// TAPFormatter formats run results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer  io.Writer
	results []tapResult
}

type tapResult struct {
	name     string
	kind     suite.Kind
	message  string
	severity string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		tr := tapResult{
			name:    r.FullName(),
			kind:    r.Outcome.Kind,
			message: r.Outcome.Message,
		}
		switch r.Outcome.Kind {
		case suite.KindFail:
			tr.severity = "fail"
		case suite.KindError:
			tr.severity = "error"
		}
		f.results = append(f.results, tr)
	}

	for _, s := range result.FailedSetups {
		f.results = append(f.results, tapResult{
			name:     s.Suite + ".setup",
			kind:     suite.KindError,
			message:  s.Message,
			severity: "error",
		})
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush() error {
	// TAP version header
	fmt.Fprintf(f.writer, "TAP version 13\n")

	// Test plan
	fmt.Fprintf(f.writer, "1..%d\n", len(f.results))

	for i, r := range f.results {
		if r.kind == suite.KindPass {
			fmt.Fprintf(f.writer, "ok %d - %s\n", i+1, r.name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", i+1, r.name)
		fmt.Fprintf(f.writer, "  ---\n")
		if r.message != "" {
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.message))
		}
		fmt.Fprintf(f.writer, "  severity: %s\n", r.severity)
		fmt.Fprintf(f.writer, "  ...\n")
	}

	_, err := fmt.Fprintln(f.writer)
	return err
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
