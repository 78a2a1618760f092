package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatHeader("v1.2.3")
	f.FormatResult(mixedResult())
	require.NoError(t, f.Flush())

	doc := buf.String()
	require.True(t, gjson.Valid(doc))

	assert.Equal(t, "v1.2.3", gjson.Get(doc, "version").String())
	assert.Equal(t, "2026-01-02T03:04:05Z", gjson.Get(doc, "time").String())
	assert.Equal(t, int64(4), gjson.Get(doc, "summary.total").Int())
	assert.Equal(t, int64(1), gjson.Get(doc, "summary.passed").Int())
	assert.Equal(t, int64(1), gjson.Get(doc, "summary.failed").Int())
	assert.Equal(t, int64(2), gjson.Get(doc, "summary.errors").Int())
	assert.Equal(t, int64(1), gjson.Get(doc, "summary.setupFailures").Int())
	assert.False(t, gjson.Get(doc, "summary.success").Bool())

	assert.Equal(t, `["add","sub","div","teardown"]`, gjson.Get(doc, "tests.#.case").Raw)
	assert.Equal(t, "fail", gjson.Get(doc, "tests.1.outcome").String())
	assert.Equal(t, "expected 2 got 3", gjson.Get(doc, "tests.1.message").String())
	assert.Equal(t, 10.0, gjson.Get(doc, "tests.1.duration").Float())
	assert.True(t, gjson.Get(doc, "tests.3.synthetic").Bool())
	assert.Equal(t, "DB", gjson.Get(doc, "setupFailures.0.suite").String())

	require.NoError(t, ValidateJSONReport(buf.Bytes()))
}

func TestJSONFormatter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatResult(arithResult())
	require.NoError(t, f.Flush())

	report, err := ReadJSONReport(&buf)
	require.NoError(t, err)
	assert.Equal(t, arithResult().ID, report.RunID)
	require.Len(t, report.Tests, 2)
	assert.Equal(t, "sub", report.Tests[1].Case)
	assert.Empty(t, report.SetupFailures)
}

func TestJSONFormatter_FlushWithoutResult(t *testing.T) {
	assert.Error(t, NewJSONFormatter(JSONWithWriter(&bytes.Buffer{})).Flush())
}

func TestJSONFormatter_EmptyRunHasArrays(t *testing.T) {
	r := arithResult()
	r.Results = nil

	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatResult(r)
	require.NoError(t, f.Flush())

	assert.Equal(t, "[]", gjson.Get(buf.String(), "tests").Raw)
	assert.Equal(t, "[]", gjson.Get(buf.String(), "setupFailures").Raw)
	assert.True(t, gjson.Get(buf.String(), "summary.success").Bool())
}

func TestJSONLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONLFormatter(JSONLWithWriter(&buf))
	f.FormatResult(mixedResult())
	require.NoError(t, f.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)

	for _, l := range lines {
		require.True(t, gjson.Valid(l), l)
		assert.Equal(t, mixedResult().ID, gjson.Get(l, "runId").String())
	}
	assert.Equal(t, RecordCase, gjson.Get(lines[0], "type").String())
	assert.Equal(t, "Arith", gjson.Get(lines[0], "test.suite").String())
	assert.Equal(t, "add", gjson.Get(lines[0], "test.case").String())
	assert.Equal(t, RecordSetupFailure, gjson.Get(lines[4], "type").String())
	assert.Equal(t, "DB", gjson.Get(lines[4], "setup.suite").String())
	assert.Equal(t, RecordSummary, gjson.Get(lines[5], "type").String())
	assert.Equal(t, int64(4), gjson.Get(lines[5], "summary.total").Int())
}

func TestValidateJSONReport_Invalid(t *testing.T) {
	err := ValidateJSONReport([]byte(`{"runId": "", "tests": [{"suite": "a", "case": "b", "outcome": "skip", "duration": 1}]}`))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.Violations)
	assert.Contains(t, err.Error(), "outcome")

	assert.Error(t, ValidateJSONReport([]byte("not json")))
}
