package llm

import (
	"reflect"
	"testing"
)

func sampleSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
			"address": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"city": map[string]interface{}{"type": "string"},
					"zip":  map[string]interface{}{"type": "string"},
				},
			},
			"tags": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"label": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	}
}

func TestStrictifyClosesEveryObject(t *testing.T) {
	strict := Strictify(sampleSchema())

	if strict["additionalProperties"] != false {
		t.Error("root object not closed")
	}

	required, ok := strict["required"].([]interface{})
	if !ok {
		t.Fatalf("root required missing: %v", strict["required"])
	}
	want := []interface{}{"address", "name", "tags"}
	if !reflect.DeepEqual(required, want) {
		t.Errorf("root required = %v, want %v", required, want)
	}

	props := strict["properties"].(map[string]interface{})
	address := props["address"].(map[string]interface{})
	if address["additionalProperties"] != false {
		t.Error("nested object not closed")
	}

	items := props["tags"].(map[string]interface{})["items"].(map[string]interface{})
	if items["additionalProperties"] != false {
		t.Error("array item object not closed")
	}
	if !reflect.DeepEqual(items["required"], []interface{}{"label"}) {
		t.Errorf("item required = %v", items["required"])
	}
}

func TestStrictifyDoesNotMutateInput(t *testing.T) {
	original := sampleSchema()
	Strictify(original)

	if _, ok := original["additionalProperties"]; ok {
		t.Error("input schema was mutated")
	}
	nested := original["properties"].(map[string]interface{})["address"].(map[string]interface{})
	if _, ok := nested["required"]; ok {
		t.Error("nested input schema was mutated")
	}
}

func TestStrictifyIdempotent(t *testing.T) {
	once := Strictify(sampleSchema())
	twice := Strictify(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second application changed the schema:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestStrictifyNilSchema(t *testing.T) {
	strict := Strictify(nil)

	if strict["additionalProperties"] != false {
		t.Error("nil schema should yield a closed object")
	}
	if strict["type"] != "object" {
		t.Errorf("type = %v, want object", strict["type"])
	}
}

func TestSchemaOfReflectsStructTags(t *testing.T) {
	type inner struct {
		Label string `json:"label"`
	}
	type sample struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
		Items []inner `json:"items"`
	}

	schema := MustSchemaOf(sample{})
	strict := Strictify(schema)

	props, ok := strict["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("no properties in reflected schema: %v", strict)
	}
	for _, name := range []string{"name", "score", "items"} {
		if _, ok := props[name]; !ok {
			t.Errorf("property %s missing from reflected schema", name)
		}
	}
}
