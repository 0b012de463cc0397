package evidence

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// evidenceSchema is deliberately permissive: it pins the container shape
// (an array of objects with string-typed fields when present) without
// requiring any field. Field absence is evidence in its own right and is
// handled by the missing-fields rule, not rejected at the door.
const evidenceSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "timestamp": {"type": "string"},
      "source":    {"type": "string"},
      "type":      {"type": "string"},
      "details":   {"type": "string"}
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("evidence.schema.json", evidenceSchema)

// validateShape checks that raw evidence bytes match the canonical
// container shape. A failure means the whole file is untrustworthy and
// the source is skipped, same as a JSON parse failure.
func validateShape(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
