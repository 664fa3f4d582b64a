package llm

import "sort"

// Strictify returns a deep copy of a JSON schema in which every object node
// is closed: additionalProperties is false and every declared property is
// required. Arrays, $defs/definitions and anyOf/allOf branches are walked
// recursively. The result of Strictify is a fixed point, so applying it
// twice yields the same schema.
func Strictify(schema map[string]interface{}) map[string]interface{} {
	if schema == nil {
		return map[string]interface{}{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           map[string]interface{}{},
			"required":             []interface{}{},
		}
	}
	return strictifyNode(deepCopy(schema).(map[string]interface{}))
}

func strictifyNode(node map[string]interface{}) map[string]interface{} {
	for _, defKey := range []string{"$defs", "definitions"} {
		if defs, ok := node[defKey].(map[string]interface{}); ok {
			for name, def := range defs {
				if m, ok := def.(map[string]interface{}); ok {
					defs[name] = strictifyNode(m)
				}
			}
		}
	}

	typ, _ := node["type"].(string)
	props, hasProps := node["properties"].(map[string]interface{})

	if typ == "object" || hasProps {
		node["additionalProperties"] = false
	}

	if hasProps {
		required := make([]interface{}, 0, len(props))
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			required = append(required, name)
			if m, ok := props[name].(map[string]interface{}); ok {
				props[name] = strictifyNode(m)
			}
		}
		node["required"] = required
	}

	if items, ok := node["items"].(map[string]interface{}); ok {
		node["items"] = strictifyNode(items)
	}

	for _, branchKey := range []string{"anyOf", "allOf", "oneOf"} {
		if branches, ok := node[branchKey].([]interface{}); ok {
			for i, b := range branches {
				if m, ok := b.(map[string]interface{}); ok {
					branches[i] = strictifyNode(m)
				}
			}
		}
	}

	return node
}

func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
