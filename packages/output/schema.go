package output

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONReportSchema is the JSON Schema of the document written by the JSON formatter.
const JSONReportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "suitekit report",
  "type": "object",
  "required": ["runId", "time", "duration", "summary", "tests", "setupFailures"],
  "properties": {
    "version": {"type": "string"},
    "runId": {"type": "string", "minLength": 1},
    "time": {"type": "string", "format": "date-time"},
    "duration": {"type": "number", "minimum": 0},
    "summary": {
      "type": "object",
      "required": ["total", "passed", "failed", "errors", "setupFailures", "success"],
      "properties": {
        "total": {"type": "integer", "minimum": 0},
        "passed": {"type": "integer", "minimum": 0},
        "failed": {"type": "integer", "minimum": 0},
        "errors": {"type": "integer", "minimum": 0},
        "setupFailures": {"type": "integer", "minimum": 0},
        "success": {"type": "boolean"}
      }
    },
    "tests": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["suite", "case", "outcome", "duration"],
        "properties": {
          "suite": {"type": "string", "minLength": 1},
          "case": {"type": "string", "minLength": 1},
          "outcome": {"enum": ["pass", "fail", "error"]},
          "message": {"type": "string"},
          "duration": {"type": "number", "minimum": 0},
          "synthetic": {"type": "boolean"}
        }
      }
    },
    "setupFailures": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["suite", "message"],
        "properties": {
          "suite": {"type": "string", "minLength": 1},
          "message": {"type": "string"}
        }
      }
    }
  }
}`

// SchemaError lists every violation found in a report
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("report does not match schema:\n  - %s", strings.Join(e.Violations, "\n  - "))
}

// ValidateJSONReport checks a JSON report document against JSONReportSchema
func ValidateJSONReport(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(JSONReportSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validating report: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{}
	for _, desc := range result.Errors() {
		schemaErr.Violations = append(schemaErr.Violations, desc.String())
	}
	return schemaErr
}
