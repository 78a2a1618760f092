package assertions

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
)

// All returns the first outcome that did not pass, or Pass.
func All(outcomes ...suite.Outcome) suite.Outcome {
	for _, o := range outcomes {
		if !o.Passed() {
			return o
		}
	}
	return suite.Pass()
}

// NoError passes for a nil error and records an Error outcome otherwise.
// Use it for faults that are not the subject of the check.
func NoError(err error) suite.Outcome {
	if err != nil {
		return suite.Errored(err)
	}
	return suite.Pass()
}

// Operator applies a named operator. Supported operators are ==, !=, >, >=,
// <, <=, contains, notContains, startsWith, endsWith, matches, length, in,
// notIn and type, plus the aliases equals and notEquals.
func Operator(actual any, op string, expected any) suite.Outcome {
	switch op {
	case "==", "equals":
		return Equal(expected, actual)
	case "!=", "notEquals":
		return NotEqual(expected, actual)
	case ">", ">=", "<", "<=":
		return Compare(actual, op, expected)
	case "contains":
		return Contains(actual, expected)
	case "notContains":
		return negate(Contains(actual, expected), "expected '%v' not to contain '%v'", actual, expected)
	case "startsWith":
		return StartsWith(actual, expected)
	case "endsWith":
		return EndsWith(actual, expected)
	case "matches":
		return Matches(actual, fmt.Sprint(expected))
	case "length":
		n, ok := toInt(expected)
		if !ok {
			return suite.Failf("expected length must be a number, got %v", expected)
		}
		return Length(actual, n)
	case "in", "notIn":
		options, ok := expected.([]any)
		if !ok {
			return suite.Failf("expected array for '%s' operator, got %T", op, expected)
		}
		if op == "notIn" {
			return negate(In(actual, options...), "expected %v not to be in %v", actual, options)
		}
		return In(actual, options...)
	case "type":
		return Type(actual, fmt.Sprint(expected))
	}
	return suite.Errorf("unknown operator: %s", op)
}

func negate(o suite.Outcome, format string, args ...any) suite.Outcome {
	if o.Passed() {
		return suite.Failf(format, args...)
	}
	if o.Kind == suite.KindError {
		return o
	}
	return suite.Pass()
}

// Equal passes when actual equals expected.
func Equal(expected, actual any) suite.Outcome {
	if equals(actual, expected) {
		return suite.Pass()
	}
	return suite.Failf("expected %v, got %v", expected, actual)
}

// NotEqual passes when actual differs from expected.
func NotEqual(expected, actual any) suite.Outcome {
	if equals(actual, expected) {
		return suite.Failf("expected not to equal %v", expected)
	}
	return suite.Pass()
}

func equals(actual, expected any) bool {
	if reflect.DeepEqual(actual, expected) {
		return true
	}

	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk {
		return actualNum == expectedNum
	}

	return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected)
}

// Compare checks "actual op expected" for op in >, >=, <, <=.
func Compare(actual any, op string, expected any) suite.Outcome {
	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if !aOk || !eOk {
		return suite.Failf("cannot compare non-numeric values: %v %s %v", actual, op, expected)
	}

	var passed bool
	switch op {
	case ">":
		passed = actualNum > expectedNum
	case ">=":
		passed = actualNum >= expectedNum
	case "<":
		passed = actualNum < expectedNum
	case "<=":
		passed = actualNum <= expectedNum
	default:
		return suite.Errorf("unknown comparison operator: %s", op)
	}

	if passed {
		return suite.Pass()
	}
	return suite.Failf("expected %v %s %v", actual, op, expected)
}

func Contains(actual, expected any) suite.Outcome {
	if strings.Contains(fmt.Sprint(actual), fmt.Sprint(expected)) {
		return suite.Pass()
	}
	return suite.Failf("expected '%v' to contain '%v'", actual, expected)
}

func StartsWith(actual, expected any) suite.Outcome {
	if strings.HasPrefix(fmt.Sprint(actual), fmt.Sprint(expected)) {
		return suite.Pass()
	}
	return suite.Failf("expected '%v' to start with '%v'", actual, expected)
}

func EndsWith(actual, expected any) suite.Outcome {
	if strings.HasSuffix(fmt.Sprint(actual), fmt.Sprint(expected)) {
		return suite.Pass()
	}
	return suite.Failf("expected '%v' to end with '%v'", actual, expected)
}

// Matches checks actual against a regular expression. The pattern may be
// written between slashes. An invalid pattern is an Error outcome.
func Matches(actual any, pattern string) suite.Outcome {
	pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "/"), "/")

	re, err := regexp.Compile(pattern)
	if err != nil {
		return suite.Errorf("invalid regex pattern: %v", err)
	}
	if re.MatchString(fmt.Sprint(actual)) {
		return suite.Pass()
	}
	return suite.Failf("expected '%v' to match /%v/", actual, pattern)
}

// computeLength returns the length of a value, or -1 if length cannot be computed
func computeLength(actual any) int {
	switch v := actual.(type) {
	case string:
		return len(v)
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	}
	rv := reflect.ValueOf(actual)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	}
	return -1
}

// Length checks the length of a string, slice, array, map or channel.
func Length(actual any, n int) suite.Outcome {
	got := computeLength(actual)
	if got == -1 {
		return suite.Failf("cannot get length of %T", actual)
	}
	if got == n {
		return suite.Pass()
	}
	return suite.Failf("expected length %d, got %d", n, got)
}

// In passes when actual equals one of options.
func In(actual any, options ...any) suite.Outcome {
	for _, o := range options {
		if equals(actual, o) {
			return suite.Pass()
		}
	}
	return suite.Failf("expected %v to be in %v", actual, options)
}

// Type checks the JSON type name of actual: null, boolean, number, string,
// array or object. Other values are named by their Go type.
func Type(actual any, expected string) suite.Outcome {
	if got := typeName(actual); got != expected {
		return suite.Failf("expected type %s, got %s", expected, got)
	}
	return suite.Pass()
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint, uint64, uint32:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return reflect.TypeOf(v).String()
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}
