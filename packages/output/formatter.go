package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush() error
}

// StructuredFormatter is a Formatter that renders on Flush.
type StructuredFormatter interface {
	Formatter
	Flushable
}

// Formats lists the structured report formats
var Formats = []string{"json", "jsonl", "junit", "tap", "html"}

// NewStructuredFormatter returns the formatter for a report format writing to w.
func NewStructuredFormatter(format string, w io.Writer) (StructuredFormatter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "jsonl":
		return NewJSONLFormatter(JSONLWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	case "html":
		return NewHTMLFormatter(HTMLWithWriter(w)), nil
	}
	return nil, fmt.Errorf("unknown report format %q (use %s)", format, strings.Join(Formats, ", "))
}

// outcomeKey is the lower-case outcome name used in machine-readable formats
func outcomeKey(k suite.Kind) string {
	return strings.ToLower(k.String())
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}
