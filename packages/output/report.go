package output

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/suitekit/packages/core/runner"
	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// ErrIO marks failures to write a report or listing file.
var ErrIO = errors.New("i/o error")

// ReportError is returned when a report file cannot be written. It matches
// ErrIO and the underlying cause.
type ReportError struct {
	Path string
	Err  error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("writing report %s: %v", e.Path, e.Err)
}

func (e *ReportError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// WriteReport renders result in the given format and overwrites path with
// it. The file is replaced atomically, so a failed write leaves any previous
// report intact. The result is never modified.
func WriteReport(path, format, version string, result *runner.RunResult) error {
	var buf bytes.Buffer
	f, err := NewStructuredFormatter(format, &buf)
	if err != nil {
		return err
	}

	f.FormatHeader(version)
	f.FormatResult(result)
	if err := f.Flush(); err != nil {
		return &ReportError{Path: path, Err: err}
	}

	return writeFileAtomic(path, buf.Bytes())
}

// WriteListing writes the suite listing to path.
func WriteListing(path string, suites []*suite.Suite) error {
	var buf bytes.Buffer
	if err := NewListingFormatter(ListingWithWriter(&buf)).FormatSuites(suites); err != nil {
		return &ReportError{Path: path, Err: err}
	}
	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &ReportError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &ReportError{Path: path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &ReportError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return &ReportError{Path: path, Err: err}
	}
	return nil
}
