package assertions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/suitekit/packages/core/suite"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// convertBracketNotation converts array bracket notation to gjson dot notation
// e.g., "[0].id" -> "0.id", "items[0].tags[1]" -> "items.0.tags.1"
func convertBracketNotation(path string) string {
	return strings.TrimPrefix(bracketIndex.ReplaceAllString(path, ".$1"), ".")
}

// JSONValue returns the value at path in a JSON document, or nil when the
// path does not exist. Paths use gjson syntax with optional [N] indexes.
func JSONValue(doc []byte, path string) (any, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("document is not valid JSON")
	}
	result := gjson.GetBytes(doc, convertBracketNotation(path))
	if !result.Exists() {
		return nil, nil
	}
	return result.Value(), nil
}

// JSONPath applies op to the value at path in doc, for example
// JSONPath(body, "items[0].id", "==", 7). An invalid document is an Error
// outcome.
func JSONPath(doc []byte, path, op string, expected any) suite.Outcome {
	actual, err := JSONValue(doc, path)
	if err != nil {
		return suite.Errored(err)
	}
	if op == "exists" {
		if actual == nil {
			return suite.Failf("expected %s to exist", path)
		}
		return suite.Pass()
	}
	o := Operator(actual, op, expected)
	if !o.Passed() && o.Kind == suite.KindFail {
		return suite.Failf("%s: %s", path, o.Message)
	}
	return o
}

// JSONSchema validates doc against a JSON Schema document. Every violation
// is listed in the failure message.
func JSONSchema(doc []byte, schema string) suite.Outcome {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return suite.Errorf("schema validation failed: %v", err)
	}
	if result.Valid() {
		return suite.Pass()
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return suite.Failf("schema validation failed: %s", strings.Join(violations, "; "))
}
