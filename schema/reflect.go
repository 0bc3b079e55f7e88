package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// For derives a JSON Schema from the struct type T using field tags:
//
//	json     - property name (fields tagged "-" are skipped)
//	desc     - property description
//	required - "true" marks the property required
//	enum     - comma-separated allowed values (string and integer fields)
//	default  - value filled in when the argument is omitted
//
// The derivation runs eagerly, once, at tool construction time; nothing is
// reflected in the execution path.
func For[T any]() (json.RawMessage, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: For requires a struct type, got %v", t)
	}

	root := &schemaNode{
		Type:       "object",
		Properties: make(map[string]*schemaNode),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop, err := fieldNode(field)
		if err != nil {
			return nil, fmt.Errorf("schema: field %s: %w", field.Name, err)
		}
		root.Properties[name] = prop

		if field.Tag.Get("required") == "true" {
			root.Required = append(root.Required, name)
		}
	}

	return buildNode(root)
}

// MustFor is like For but panics on error.
func MustFor[T any]() json.RawMessage {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func fieldNode(field reflect.StructField) (*schemaNode, error) {
	prop := typeNode(field.Type)
	if prop == nil {
		return nil, fmt.Errorf("unsupported type %v", field.Type)
	}

	if desc := field.Tag.Get("desc"); desc != "" {
		prop.Description = desc
	}

	if enum := field.Tag.Get("enum"); enum != "" {
		values, err := parseEnum(prop.Type, enum)
		if err != nil {
			return nil, err
		}
		prop.Enum = values
	}

	if def := field.Tag.Get("default"); def != "" {
		value, err := parseScalar(prop.Type, def)
		if err != nil {
			return nil, fmt.Errorf("invalid default %q: %w", def, err)
		}
		prop.Default = value
	}

	return prop, nil
}

func typeNode(t reflect.Type) *schemaNode {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &schemaNode{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &schemaNode{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &schemaNode{Type: "number"}

	case reflect.Bool:
		return &schemaNode{Type: "boolean"}

	case reflect.Slice, reflect.Array:
		items := typeNode(t.Elem())
		if items == nil {
			return nil
		}
		return &schemaNode{Type: "array", Items: items}

	case reflect.Struct:
		nested := &schemaNode{
			Type:       "object",
			Properties: make(map[string]*schemaNode),
		}
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			jsonTag := field.Tag.Get("json")
			if jsonTag == "-" {
				continue
			}
			name := strings.Split(jsonTag, ",")[0]
			if name == "" {
				name = field.Name
			}
			prop, err := fieldNode(field)
			if err != nil {
				return nil
			}
			nested.Properties[name] = prop
			if field.Tag.Get("required") == "true" {
				nested.Required = append(nested.Required, name)
			}
		}
		return nested

	case reflect.Map:
		// Open object: keys are not declared.
		return &schemaNode{Type: "object"}

	default:
		return nil
	}
}

func parseEnum(schemaType, raw string) ([]any, error) {
	parts := strings.Split(raw, ",")
	values := make([]any, 0, len(parts))
	for _, part := range parts {
		value, err := parseScalar(schemaType, strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid enum value %q: %w", part, err)
		}
		values = append(values, value)
	}
	return values, nil
}

func parseScalar(schemaType, raw string) (any, error) {
	switch schemaType {
	case "string":
		return raw, nil
	case "integer":
		return strconv.Atoi(raw)
	case "number":
		return strconv.ParseFloat(raw, 64)
	case "boolean":
		return strconv.ParseBool(raw)
	default:
		return nil, fmt.Errorf("tag not supported for %s fields", schemaType)
	}
}
