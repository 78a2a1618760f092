package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one registered suite
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test case
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure represents an assertion failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents an unexpected fault
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats run results as JUnit XML
type JUnitFormatter struct {
	writer     io.Writer
	name       string
	duration   time.Duration
	startedAt  time.Time
	testSuites []JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		name:       "suitekit",
		testSuites: make([]JUnitTestSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatResult(result *runner.RunResult) {
	f.duration = result.Duration
	f.startedAt = result.StartedAt

	index := make(map[string]int)
	suiteFor := func(name string) *JUnitTestSuite {
		i, ok := index[name]
		if !ok {
			i = len(f.testSuites)
			index[name] = i
			f.testSuites = append(f.testSuites, JUnitTestSuite{Name: name})
		}
		return &f.testSuites[i]
	}

	for _, r := range result.Results {
		ts := suiteFor(r.Suite)
		tc := JUnitTestCase{
			Name:      r.Case,
			ClassName: r.Suite,
			Time:      r.Duration.Seconds(),
		}

		switch r.Outcome.Kind {
		case suite.KindFail:
			ts.Failures++
			tc.Failure = &JUnitFailure{
				Message: r.Outcome.Message,
				Type:    "AssertionError",
				Content: r.Outcome.Message,
			}
		case suite.KindError:
			ts.Errors++
			errType := "Error"
			if r.Synthetic {
				errType = "TeardownError"
			}
			tc.Error = &JUnitError{
				Message: r.Outcome.Message,
				Type:    errType,
				Content: r.Outcome.Message,
			}
		}

		ts.Tests++
		ts.Time += r.Duration.Seconds()
		ts.TestCases = append(ts.TestCases, tc)
	}

	// A failed setup is reported as an errored "setup" case of its suite
	for _, s := range result.FailedSetups {
		ts := suiteFor(s.Suite)
		ts.Tests++
		ts.Errors++
		ts.TestCases = append(ts.TestCases, JUnitTestCase{
			Name:      "setup",
			ClassName: s.Suite,
			Error: &JUnitError{
				Message: s.Message,
				Type:    "SetupError",
				Content: s.Message,
			},
		})
	}
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush() error {
	var totalTests, totalFailures, totalErrors int
	for _, s := range f.testSuites {
		totalTests += s.Tests
		totalFailures += s.Failures
		totalErrors += s.Errors
	}

	suites := JUnitTestSuites{
		Name:       f.name,
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Time:       f.duration.Seconds(),
		TestSuites: f.testSuites,
	}
	if !f.startedAt.IsZero() {
		suites.Timestamp = f.startedAt.UTC().Format(time.RFC3339)
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
