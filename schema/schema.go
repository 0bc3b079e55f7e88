package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// schemaNode is the internal representation of a JSON Schema. The same shape
// is used in both directions: builders marshal it, and Validate unmarshals a
// declared parameter schema back into it.
type schemaNode struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`

	// String constraints
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Numeric constraints
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Array constraints
	Items    *schemaNode `json:"items,omitempty"`
	MinItems *int        `json:"minItems,omitempty"`
	MaxItems *int        `json:"maxItems,omitempty"`

	// Object constraints
	Properties           map[string]*schemaNode `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// Sentinel errors for schema construction.
var (
	// ErrInvalidRange marks a bound pair with the lower above the upper.
	ErrInvalidRange = errors.New("schema: range bounds inverted")

	// ErrInvalidPattern marks a regex constraint that does not compile.
	ErrInvalidPattern = errors.New("schema: pattern does not compile")

	// ErrNilItems marks an array schema declared without an items schema.
	ErrNilItems = errors.New("schema: items schema missing")

	// ErrMalformedSchema marks a declared parameter schema that cannot be
	// parsed.
	ErrMalformedSchema = errors.New("schema: malformed schema document")
)

// SchemaError reports an internally inconsistent schema at build time.
// Argument validation failures are reported as *troupe.ValidationError by
// Validate, not with this type.
type SchemaError struct {
	Field   string // property name for object schemas, empty at the top level
	Message string
	Err     error
}

// Error returns the failure message, naming the property when known.
func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: property %q: %s", e.Field, e.Message)
	}
	return "schema: " + e.Message
}

// Unwrap returns the sentinel classifying this failure.
func (e *SchemaError) Unwrap() error { return e.Err }

// messageOf renders a nested failure without repeating the "schema:" prefix
// when one SchemaError wraps another.
func messageOf(err error) string {
	var se *SchemaError
	if !errors.As(err, &se) {
		return err.Error()
	}
	if se.Field != "" {
		return fmt.Sprintf("property %q: %s", se.Field, se.Message)
	}
	return se.Message
}

// inverted reports whether both bounds are set and the lower exceeds the
// upper.
func inverted[T int | float64](lo, hi *T) bool {
	return lo != nil && hi != nil && *lo > *hi
}

// check verifies the schema for internal consistency.
func (s *schemaNode) check() error {
	switch s.Type {
	case "string":
		if inverted(s.MinLength, s.MaxLength) {
			return &SchemaError{Message: "minLength > maxLength", Err: ErrInvalidRange}
		}
		if s.Pattern != "" {
			if _, err := regexp.Compile(s.Pattern); err != nil {
				return &SchemaError{
					Message: fmt.Sprintf("pattern %q: %v", s.Pattern, err),
					Err:     ErrInvalidPattern,
				}
			}
		}

	case "integer", "number":
		if inverted(s.Minimum, s.Maximum) {
			return &SchemaError{Message: "minimum > maximum", Err: ErrInvalidRange}
		}

	case "array":
		if s.Items == nil {
			return &SchemaError{Message: "items schema missing", Err: ErrNilItems}
		}
		if inverted(s.MinItems, s.MaxItems) {
			return &SchemaError{Message: "minItems > maxItems", Err: ErrInvalidRange}
		}
		if err := s.Items.check(); err != nil {
			return &SchemaError{Message: "items: " + messageOf(err), Err: err}
		}

	case "object":
		for name, prop := range s.Properties {
			if err := prop.check(); err != nil {
				return &SchemaError{Field: name, Message: messageOf(err), Err: err}
			}
		}
	}
	return nil
}

// buildNode checks a schema for internal consistency and serializes it.
// Builders and the reflection path both finish here.
func buildNode(n *schemaNode) (json.RawMessage, error) {
	if err := n.check(); err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

// ptr returns a pointer to the value.
func ptr[T any](v T) *T {
	return &v
}
