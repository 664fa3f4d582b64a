package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaOf reflects a JSON schema from a Go value. The schema is inlined
// (no $ref indirection) so the strictification pass and downstream
// validators see a self-contained tree.
func SchemaOf(v interface{}) (map[string]interface{}, error) {
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(v)
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reflected schema: %w", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reflected schema: %w", err)
	}
	return out, nil
}

// MustSchemaOf is SchemaOf for package-level schema registries built at init.
func MustSchemaOf(v interface{}) map[string]interface{} {
	schema, err := SchemaOf(v)
	if err != nil {
		panic(err)
	}
	return schema
}
