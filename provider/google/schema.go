package google

import (
	"encoding/json"

	"google.golang.org/genai"
)

// schemaTypes maps JSON Schema type names onto the SDK's enum.
var schemaTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// toGenaiSchema converts a JSON Schema document into the SDK's typed form.
// Gemini takes tool parameters as structured schemas rather than raw JSON
// Schema. Constraints the API understands (bounds, lengths, patterns, enums)
// carry over; anything else is dropped.
func toGenaiSchema(doc json.RawMessage) *genai.Schema {
	if len(doc) == 0 {
		return nil
	}
	var node map[string]any
	if err := json.Unmarshal(doc, &node); err != nil {
		return nil
	}
	return convertNode(node)
}

func convertNode(node map[string]any) *genai.Schema {
	if node == nil {
		return nil
	}

	s := &genai.Schema{}
	if name, ok := node["type"].(string); ok {
		s.Type = schemaTypes[name]
	}
	if desc, ok := node["description"].(string); ok {
		s.Description = desc
	}
	if node["default"] != nil {
		s.Default = node["default"]
	}

	// String constraints. The API takes enum values as strings only.
	if values, ok := node["enum"].([]any); ok {
		for _, v := range values {
			if str, ok := v.(string); ok {
				s.Enum = append(s.Enum, str)
			}
		}
	}
	if pattern, ok := node["pattern"].(string); ok {
		s.Pattern = pattern
	}
	s.MinLength = intBound(node, "minLength")
	s.MaxLength = intBound(node, "maxLength")

	// Numeric bounds.
	if v, ok := node["minimum"].(float64); ok {
		s.Minimum = &v
	}
	if v, ok := node["maximum"].(float64); ok {
		s.Maximum = &v
	}

	// Arrays.
	if items, ok := node["items"].(map[string]any); ok {
		s.Items = convertNode(items)
	}
	s.MinItems = intBound(node, "minItems")
	s.MaxItems = intBound(node, "maxItems")

	// Objects.
	if props, ok := node["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, child := range props {
			if childMap, ok := child.(map[string]any); ok {
				s.Properties[name] = convertNode(childMap)
			}
		}
	}
	if required, ok := node["required"].([]any); ok {
		for _, r := range required {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}

	return s
}

// intBound reads an integer-valued constraint, which JSON decoding hands
// us as float64.
func intBound(node map[string]any, key string) *int64 {
	v, ok := node[key].(float64)
	if !ok {
		return nil
	}
	n := int64(v)
	return &n
}
