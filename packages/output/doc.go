// Package output provides formatters for displaying and persisting run results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output (quiet or verbose)
//   - JSON: A single machine-readable JSON document
//   - JSONL: One JSON record per line
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//   - HTML: A standalone HTML page
//
// Each formatter implements the Formatter interface. Formats that render the
// whole run at once also implement Flushable. WriteReport renders a
// structured format and overwrites a fixed report path.
package output
