package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
)

// JSONL record types
const (
	RecordCase         = "case"
	RecordSetupFailure = "setup_failure"
	RecordSummary      = "summary"
)

// JSONLRecord is one line of the JSONL report. Case and setup failure lines
// come first in run order; the summary line is always last.
type JSONLRecord struct {
	Type    string            `json:"type"`
	RunID   string            `json:"runId"`
	Test    *JSONTest         `json:"test,omitempty"`
	Setup   *JSONSetupFailure `json:"setup,omitempty"`
	Summary *JSONSummary      `json:"summary,omitempty"`
}

// JSONLFormatter formats run results as one JSON record per line
type JSONLFormatter struct {
	writer io.Writer
	report *JSONReport
}

type JSONLOption func(*JSONLFormatter)

func NewJSONLFormatter(opts ...JSONLOption) *JSONLFormatter {
	f := &JSONLFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONLWithWriter(w io.Writer) JSONLOption {
	return func(f *JSONLFormatter) {
		f.writer = w
	}
}

func (f *JSONLFormatter) FormatResult(result *runner.RunResult) {
	f.report = NewJSONReport(result, "")
}

func (f *JSONLFormatter) FormatError(err error) {}

func (f *JSONLFormatter) FormatHeader(version string) {}

// Flush writes the accumulated records
func (f *JSONLFormatter) Flush() error {
	if f.report == nil {
		return fmt.Errorf("no result to write")
	}

	encoder := json.NewEncoder(f.writer)
	for i := range f.report.Tests {
		if err := encoder.Encode(JSONLRecord{Type: RecordCase, RunID: f.report.RunID, Test: &f.report.Tests[i]}); err != nil {
			return err
		}
	}
	for i := range f.report.SetupFailures {
		if err := encoder.Encode(JSONLRecord{Type: RecordSetupFailure, RunID: f.report.RunID, Setup: &f.report.SetupFailures[i]}); err != nil {
			return err
		}
	}
	return encoder.Encode(JSONLRecord{Type: RecordSummary, RunID: f.report.RunID, Summary: &f.report.Summary})
}
