package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
)

// JSONReport represents the complete JSON output structure
type JSONReport struct {
	Version       string             `json:"version,omitempty"`
	RunID         string             `json:"runId"`
	Time          string             `json:"time"`
	Duration      float64            `json:"duration"`
	Summary       JSONSummary        `json:"summary"`
	Tests         []JSONTest         `json:"tests"`
	SetupFailures []JSONSetupFailure `json:"setupFailures"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Total         int  `json:"total"`
	Passed        int  `json:"passed"`
	Failed        int  `json:"failed"`
	Errors        int  `json:"errors"`
	SetupFailures int  `json:"setupFailures"`
	Success       bool `json:"success"`
}

// JSONTest represents a single case result
type JSONTest struct {
	Suite     string  `json:"suite"`
	Case      string  `json:"case"`
	Outcome   string  `json:"outcome"`
	Message   string  `json:"message,omitempty"`
	Duration  float64 `json:"duration"`
	Synthetic bool    `json:"synthetic,omitempty"`
}

// JSONSetupFailure represents a suite whose setup failed
type JSONSetupFailure struct {
	Suite   string `json:"suite"`
	Message string `json:"message"`
}

// NewJSONReport converts a run into its JSON representation. Durations are
// in milliseconds.
func NewJSONReport(result *runner.RunResult, version string) *JSONReport {
	report := &JSONReport{
		Version:  version,
		RunID:    result.ID,
		Time:     result.StartedAt.UTC().Format(time.RFC3339),
		Duration: milliseconds(result.Duration),
		Summary: JSONSummary{
			Total:         result.Total(),
			Passed:        result.Passed(),
			Failed:        result.Failed(),
			Errors:        result.Errored(),
			SetupFailures: len(result.FailedSetups),
			Success:       result.Success(),
		},
		Tests:         make([]JSONTest, 0, len(result.Results)),
		SetupFailures: make([]JSONSetupFailure, 0, len(result.FailedSetups)),
	}

	for _, r := range result.Results {
		report.Tests = append(report.Tests, jsonTest(r))
	}
	for _, f := range result.FailedSetups {
		report.SetupFailures = append(report.SetupFailures, JSONSetupFailure{Suite: f.Suite, Message: f.Message})
	}
	return report
}

func jsonTest(r runner.CaseResult) JSONTest {
	return JSONTest{
		Suite:     r.Suite,
		Case:      r.Case,
		Outcome:   outcomeKey(r.Outcome.Kind),
		Message:   r.Outcome.Message,
		Duration:  milliseconds(r.Duration),
		Synthetic: r.Synthetic,
	}
}

// ReadJSONReport decodes a report written by the JSON formatter
func ReadJSONReport(r io.Reader) (*JSONReport, error) {
	var report JSONReport
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("decoding JSON report: %w", err)
	}
	return &report, nil
}

// LoadJSONReport reads a JSON report from disk
func LoadJSONReport(path string) (*JSONReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSONReport(f)
}

// JSONFormatter formats run results as a single JSON document
type JSONFormatter struct {
	writer  io.Writer
	version string
	report  *JSONReport
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	f.report = NewJSONReport(result, f.version)
}

func (f *JSONFormatter) FormatError(err error) {
	// Faults are part of the case results
}

func (f *JSONFormatter) FormatHeader(version string) {
	f.version = version
	if f.report != nil {
		f.report.Version = version
	}
}

// Flush writes the JSON document
func (f *JSONFormatter) Flush() error {
	if f.report == nil {
		return fmt.Errorf("no result to write")
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.report)
}
