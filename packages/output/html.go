package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
)

// HTMLOutput represents the data handed to the HTML template
type HTMLOutput struct {
	Version       string
	RunID         string
	Time          string
	Duration      string
	Summary       JSONSummary
	PassedPercent float64
	Tests         []HTMLTest
	SetupFailures []JSONSetupFailure
}

// HTMLTest represents a single case row
type HTMLTest struct {
	Name        string
	StatusText  string
	StatusClass string
	Message     string
	Duration    string
}

// HTMLFormatter formats run results as a standalone HTML page
type HTMLFormatter struct {
	writer  io.Writer
	version string
	output  *HTMLOutput
}

// HTMLOption is a functional option for HTMLFormatter
type HTMLOption func(*HTMLFormatter)

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HTMLWithWriter sets the output writer
func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		f.writer = w
	}
}

// FormatResult converts the run into template data
func (f *HTMLFormatter) FormatResult(result *runner.RunResult) {
	report := NewJSONReport(result, f.version)
	out := &HTMLOutput{
		Version:       f.version,
		RunID:         result.ID,
		Time:          result.StartedAt.Format("2006-01-02 15:04:05"),
		Duration:      formatDuration(result.Duration),
		Summary:       report.Summary,
		SetupFailures: report.SetupFailures,
	}
	if out.Summary.Total > 0 {
		out.PassedPercent = float64(out.Summary.Passed) / float64(out.Summary.Total) * 100
	}

	for _, r := range result.Results {
		out.Tests = append(out.Tests, HTMLTest{
			Name:        r.FullName(),
			StatusText:  r.Outcome.Kind.String(),
			StatusClass: outcomeKey(r.Outcome.Kind),
			Message:     r.Outcome.Message,
			Duration:    formatDuration(r.Duration),
		})
	}
	f.output = out
}

// FormatError handles errors (no-op for HTML, errors are in test results)
func (f *HTMLFormatter) FormatError(err error) {}

// FormatHeader captures the version for the HTML report
func (f *HTMLFormatter) FormatHeader(version string) {
	f.version = version
	if f.output != nil {
		f.output.Version = version
	}
}

// Flush writes the HTML page
func (f *HTMLFormatter) Flush() error {
	if f.output == nil {
		return fmt.Errorf("no result to write")
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"now": func() string { return time.Now().Format(time.RFC3339) },
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	return tmpl.Execute(f.writer, f.output)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>suitekit report {{.RunID}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #ddd; }
.pass { color: #1a7f37; } .fail { color: #cf222e; } .error { color: #9a6700; }
.summary span { margin-right: 1.5rem; }
</style>
</head>
<body>
<h1>suitekit {{.Version}}</h1>
<p>Run {{.RunID}} at {{.Time}} ({{.Duration}})</p>
<p class="summary">
<span>Total: {{.Summary.Total}}</span>
<span class="pass">Passed: {{.Summary.Passed}}</span>
<span class="fail">Failed: {{.Summary.Failed}}</span>
<span class="error">Errors: {{.Summary.Errors}}</span>
<span>Pass rate: {{printf "%.1f" .PassedPercent}}%</span>
</p>
{{if .SetupFailures}}<h2>Suites failed to initialize</h2>
<ul>{{range .SetupFailures}}<li><strong>{{.Suite}}</strong>: {{.Message}}</li>{{end}}</ul>
{{end}}<table>
<thead><tr><th>Case</th><th>Status</th><th>Duration</th><th>Message</th></tr></thead>
<tbody>
{{range .Tests}}<tr><td>{{.Name}}</td><td class="{{.StatusClass}}">{{.StatusText}}</td><td>{{.Duration}}</td><td>{{.Message}}</td></tr>
{{end}}</tbody>
</table>
<footer><small>Generated {{now}}</small></footer>
</body>
</html>
`
