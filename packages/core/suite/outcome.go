package suite

import (
	"fmt"
	"strings"
)

// Kind classifies the result of a single test case. The zero Kind is not
// valid, so an Outcome without a Kind is recorded as an Error.
type Kind int

const (
	KindPass Kind = iota + 1
	KindFail
	KindError
)

// String returns the report label for the kind.
func (k Kind) String() string {
	switch k {
	case KindPass:
		return "PASS"
	case KindFail:
		return "FAIL"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseKind converts a report label (case-insensitive) back into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS":
		return KindPass, nil
	case "FAIL":
		return KindFail, nil
	case "ERROR":
		return KindError, nil
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// Outcome is what a test case body returns.
type Outcome struct {
	Kind    Kind
	Message string
	// Err is the underlying error for KindError outcomes, if any.
	Err error
}

// Pass reports a successful case.
func Pass() Outcome {
	return Outcome{Kind: KindPass}
}

// Fail reports an assertion failure.
func Fail(msg string) Outcome {
	return Outcome{Kind: KindFail, Message: msg}
}

// Failf reports an assertion failure with a formatted message.
func Failf(format string, args ...any) Outcome {
	return Fail(fmt.Sprintf(format, args...))
}

// Errored reports an unexpected fault. A nil err still yields an Error outcome.
func Errored(err error) Outcome {
	if err == nil {
		return Outcome{Kind: KindError, Message: "unknown error"}
	}
	return Outcome{Kind: KindError, Message: err.Error(), Err: err}
}

// Errorf reports an unexpected fault with a formatted message.
func Errorf(format string, args ...any) Outcome {
	return Errored(fmt.Errorf(format, args...))
}

// Check turns a boolean assertion into an Outcome.
func Check(ok bool, format string, args ...any) Outcome {
	if ok {
		return Pass()
	}
	return Failf(format, args...)
}

func (o Outcome) Passed() bool { return o.Kind == KindPass }

func (o Outcome) String() string {
	if o.Message == "" {
		return o.Kind.String()
	}
	return o.Kind.String() + ": " + o.Message
}
