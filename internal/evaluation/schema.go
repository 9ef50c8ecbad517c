package evaluation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const itemSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "id": {"type": "string"},
    "image": {"type": "string", "minLength": 1, "pattern": "\\S"},
    "expected": {"type": "string", "pattern": "^([0-9]{5,7})?$"}
  },
  "required": ["image"],
  "additionalProperties": false
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func itemValidator() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("item.json", strings.NewReader(itemSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("item.json")
	})
	return schema, schemaErr
}

// validateItem checks one raw JSON dataset item.
func validateItem(raw []byte) error {
	s, err := itemValidator()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal item: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("item does not match schema: %w", err)
	}
	return nil
}
