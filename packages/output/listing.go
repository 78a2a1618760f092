package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// ListingFormatter writes the registered suites and their cases
type ListingFormatter struct {
	writer io.Writer
}

type ListingOption func(*ListingFormatter)

func NewListingFormatter(opts ...ListingOption) *ListingFormatter {
	f := &ListingFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func ListingWithWriter(w io.Writer) ListingOption {
	return func(f *ListingFormatter) {
		f.writer = w
	}
}

// FormatSuites writes one block per suite, in registration order
func (f *ListingFormatter) FormatSuites(suites []*suite.Suite) error {
	total := 0
	for _, s := range suites {
		total += len(s.Cases)

		if _, err := fmt.Fprintf(f.writer, "%s (%d %s, setup: %s, teardown: %s)\n",
			s.Name, len(s.Cases), plural(len(s.Cases), "case", "cases"),
			yesNo(s.Setup != nil), yesNo(s.Teardown != nil)); err != nil {
			return err
		}
		for i, c := range s.Cases {
			if _, err := fmt.Fprintf(f.writer, "  %d. %s\n", i+1, c.Name); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(f.writer, "\n%d %s, %d %s\n",
		len(suites), plural(len(suites), "suite", "suites"), total, plural(total, "case", "cases"))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
