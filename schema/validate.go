package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"

	"github.com/troupe-dev/troupe"
)

// Validate checks args against a declared parameter schema and returns a new
// argument map with declared defaults filled in for missing optional
// parameters. The input map is never mutated.
//
// Defaults are applied before validation, so a default that violates its own
// constraints is rejected the same way an explicit value would be. Failures
// are reported as *troupe.ValidationError; validation failures are final and
// never retried.
//
// A nil or empty schema accepts any arguments unchanged.
func Validate(params json.RawMessage, args map[string]any) (map[string]any, error) {
	filled := make(map[string]any, len(args))
	for k, v := range args {
		filled[k] = v
	}

	if len(params) == 0 {
		return filled, nil
	}

	var root schemaNode
	if err := json.Unmarshal(params, &root); err != nil {
		return nil, &SchemaError{
			Message: fmt.Sprintf("cannot parse parameter schema: %v", err),
			Err:     ErrMalformedSchema,
		}
	}
	if root.Type != "" && root.Type != "object" {
		return nil, &SchemaError{
			Message: fmt.Sprintf("parameter schema must be an object, got %q", root.Type),
			Err:     ErrMalformedSchema,
		}
	}

	if err := validateObject("", &root, filled); err != nil {
		return nil, err
	}
	return filled, nil
}

// validateObject fills defaults and validates one object level in place.
func validateObject(path string, node *schemaNode, obj map[string]any) error {
	for name, prop := range node.Properties {
		if _, present := obj[name]; !present && prop.Default != nil {
			obj[name] = prop.Default
		}
	}

	for _, name := range node.Required {
		if _, present := obj[name]; !present {
			return &troupe.ValidationError{
				Field:  joinPath(path, name),
				Reason: "missing required parameter",
			}
		}
	}

	if node.AdditionalProperties != nil && !*node.AdditionalProperties {
		for name := range obj {
			if _, declared := node.Properties[name]; !declared {
				return &troupe.ValidationError{
					Field:  joinPath(path, name),
					Reason: "parameter not declared in schema",
				}
			}
		}
	}

	for name, prop := range node.Properties {
		value, present := obj[name]
		if !present {
			continue
		}
		if err := checkValue(joinPath(path, name), prop, value); err != nil {
			return err
		}
	}
	return nil
}

// checkValue validates a single value against its property schema.
func checkValue(path string, node *schemaNode, value any) error {
	if value == nil {
		return &troupe.ValidationError{Field: path, Reason: "value is null"}
	}

	switch node.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return typeMismatch(path, "string", value)
		}
		if node.MinLength != nil && len(s) < *node.MinLength {
			return &troupe.ValidationError{
				Field:  path,
				Reason: fmt.Sprintf("length %d is below minimum %d", len(s), *node.MinLength),
			}
		}
		if node.MaxLength != nil && len(s) > *node.MaxLength {
			return &troupe.ValidationError{
				Field:  path,
				Reason: fmt.Sprintf("length %d exceeds maximum %d", len(s), *node.MaxLength),
			}
		}
		if node.Pattern != "" {
			re, err := regexp.Compile(node.Pattern)
			if err != nil {
				return &SchemaError{
					Field:   path,
					Message: fmt.Sprintf("pattern %q: %v", node.Pattern, err),
					Err:     ErrInvalidPattern,
				}
			}
			if !re.MatchString(s) {
				return &troupe.ValidationError{
					Field:  path,
					Reason: fmt.Sprintf("value does not match pattern %q", node.Pattern),
				}
			}
		}

	case "integer":
		f, ok := asFloat(value)
		if !ok || f != math.Trunc(f) {
			return typeMismatch(path, "integer", value)
		}
		if err := checkRange(path, node, f); err != nil {
			return err
		}

	case "number":
		f, ok := asFloat(value)
		if !ok {
			return typeMismatch(path, "number", value)
		}
		if err := checkRange(path, node, f); err != nil {
			return err
		}

	case "boolean":
		if _, ok := value.(bool); !ok {
			return typeMismatch(path, "boolean", value)
		}

	case "array":
		items, ok := asSlice(value)
		if !ok {
			return typeMismatch(path, "array", value)
		}
		if node.MinItems != nil && len(items) < *node.MinItems {
			return &troupe.ValidationError{
				Field:  path,
				Reason: fmt.Sprintf("%d items is below minimum %d", len(items), *node.MinItems),
			}
		}
		if node.MaxItems != nil && len(items) > *node.MaxItems {
			return &troupe.ValidationError{
				Field:  path,
				Reason: fmt.Sprintf("%d items exceeds maximum %d", len(items), *node.MaxItems),
			}
		}
		if node.Items != nil {
			for i, item := range items {
				if err := checkValue(fmt.Sprintf("%s[%d]", path, i), node.Items, item); err != nil {
					return err
				}
			}
		}

	case "object":
		obj, ok := value.(map[string]any)
		if !ok {
			return typeMismatch(path, "object", value)
		}
		return validateObject(path, node, obj)

	case "":
		// Untyped property: accept anything.
	default:
		return &SchemaError{
			Field:   path,
			Message: fmt.Sprintf("unsupported schema type %q", node.Type),
			Err:     ErrMalformedSchema,
		}
	}

	if len(node.Enum) > 0 && !inEnum(node.Enum, value) {
		return &troupe.ValidationError{
			Field:  path,
			Reason: fmt.Sprintf("value %v is not one of the allowed values", value),
		}
	}
	return nil
}

func checkRange(path string, node *schemaNode, f float64) error {
	if node.Minimum != nil && f < *node.Minimum {
		return &troupe.ValidationError{
			Field:  path,
			Reason: fmt.Sprintf("value %v is below minimum %v", f, *node.Minimum),
		}
	}
	if node.Maximum != nil && f > *node.Maximum {
		return &troupe.ValidationError{
			Field:  path,
			Reason: fmt.Sprintf("value %v exceeds maximum %v", f, *node.Maximum),
		}
	}
	return nil
}

func typeMismatch(path, want string, got any) *troupe.ValidationError {
	return &troupe.ValidationError{
		Field:  path,
		Reason: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// asFloat accepts any numeric representation that survives a JSON round trip
// plus native Go integer types, so argument maps built in Go validate the
// same way as maps decoded from model output.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asSlice accepts []any directly and any other slice type via reflection.
func asSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func inEnum(enum []any, value any) bool {
	vf, vIsNum := asFloat(value)
	for _, allowed := range enum {
		if af, ok := asFloat(allowed); ok && vIsNum {
			if af == vf {
				return true
			}
			continue
		}
		if reflect.DeepEqual(allowed, value) {
			return true
		}
	}
	return false
}
