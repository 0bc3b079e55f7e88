package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

// decode unmarshals a built schema for structural assertions.
func decode(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("built schema is not valid JSON: %v", err)
	}
	return doc
}

func property(t *testing.T, doc map[string]any, name string) map[string]any {
	t.Helper()
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties object: %v", doc)
	}
	prop, ok := props[name].(map[string]any)
	if !ok {
		t.Fatalf("schema has no property %q: %v", name, props)
	}
	return prop
}

func TestObjectDocument(t *testing.T) {
	raw, err := Object().
		Desc("Search request").
		Field("query", String().Desc("Terms to search for.").MinLength(1).Required()).
		Field("limit", Int().Min(1).Max(50).Default(10)).
		Field("safe", Bool().Default(true)).
		Field("boost", Number().Min(0).Max(2)).
		Field("sites", Array(String().Pattern(`^https?://`)).MaxItems(5)).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := decode(t, raw)
	if doc["type"] != "object" {
		t.Errorf("expected object type, got %v", doc["type"])
	}
	if doc["description"] != "Search request" {
		t.Errorf("expected description, got %v", doc["description"])
	}

	query := property(t, doc, "query")
	if query["type"] != "string" || query["minLength"] != float64(1) {
		t.Errorf("unexpected query schema: %v", query)
	}
	if query["description"] != "Terms to search for." {
		t.Errorf("unexpected query description: %v", query["description"])
	}

	limit := property(t, doc, "limit")
	if limit["type"] != "integer" {
		t.Errorf("unexpected limit type: %v", limit["type"])
	}
	if limit["minimum"] != float64(1) || limit["maximum"] != float64(50) {
		t.Errorf("unexpected limit bounds: %v", limit)
	}
	if limit["default"] != float64(10) {
		t.Errorf("unexpected limit default: %v", limit["default"])
	}

	if safe := property(t, doc, "safe"); safe["default"] != true {
		t.Errorf("unexpected safe default: %v", safe["default"])
	}
	if boost := property(t, doc, "boost"); boost["type"] != "number" {
		t.Errorf("unexpected boost type: %v", boost["type"])
	}

	sites := property(t, doc, "sites")
	if sites["maxItems"] != float64(5) {
		t.Errorf("unexpected sites maxItems: %v", sites["maxItems"])
	}
	items, ok := sites["items"].(map[string]any)
	if !ok || items["type"] != "string" || items["pattern"] != `^https?://` {
		t.Errorf("unexpected sites items schema: %v", sites["items"])
	}

	required, _ := doc["required"].([]any)
	if len(required) != 1 || required[0] != "query" {
		t.Errorf("expected required [query], got %v", required)
	}
}

func TestEmptyObject(t *testing.T) {
	raw, err := Object().Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// An object with no declared properties omits the properties key.
	if string(raw) != `{"type":"object"}` {
		t.Errorf("unexpected empty object document: %s", raw)
	}
}

func TestRequiredAccumulation(t *testing.T) {
	t.Run("keeps declaration order", func(t *testing.T) {
		doc := decode(t, Object().
			Field("b", String().Required()).
			Field("a", Int().Required()).
			MustBuild())

		required, _ := doc["required"].([]any)
		if len(required) != 2 || required[0] != "b" || required[1] != "a" {
			t.Errorf("expected required [b a], got %v", required)
		}
	})

	t.Run("re-declaring a field does not duplicate the entry", func(t *testing.T) {
		doc := decode(t, Object().
			Field("name", String().Required()).
			Field("name", String().Required()).
			MustBuild())

		required, _ := doc["required"].([]any)
		if len(required) != 1 {
			t.Errorf("expected a single required entry, got %v", required)
		}
	})
}

func TestAdditionalProperties(t *testing.T) {
	t.Run("absent by default", func(t *testing.T) {
		doc := decode(t, Object().Field("name", String()).MustBuild())
		if _, present := doc["additionalProperties"]; present {
			t.Errorf("expected no additionalProperties key, got %v", doc)
		}
	})

	t.Run("strict emits false", func(t *testing.T) {
		doc := decode(t, Object().Strict().Field("name", String()).MustBuild())
		if doc["additionalProperties"] != false {
			t.Errorf("expected additionalProperties false, got %v", doc["additionalProperties"])
		}
	})

	t.Run("explicit true survives", func(t *testing.T) {
		doc := decode(t, Object().AdditionalProperties(true).MustBuild())
		if doc["additionalProperties"] != true {
			t.Errorf("expected additionalProperties true, got %v", doc["additionalProperties"])
		}
	})
}

func TestEnums(t *testing.T) {
	t.Run("string enum", func(t *testing.T) {
		doc := decode(t, String().Enum("asc", "desc").MustBuild())
		enum, _ := doc["enum"].([]any)
		if len(enum) != 2 || enum[0] != "asc" || enum[1] != "desc" {
			t.Errorf("unexpected enum: %v", enum)
		}
	})

	t.Run("integer enum", func(t *testing.T) {
		doc := decode(t, Int().Enum(8, 16, 32).MustBuild())
		enum, _ := doc["enum"].([]any)
		if len(enum) != 3 || enum[0] != float64(8) || enum[2] != float64(32) {
			t.Errorf("unexpected enum: %v", enum)
		}
	})
}

func TestNestedObjects(t *testing.T) {
	doc := decode(t, Object().
		Field("owner", Object().
			Field("name", String().Required()).
			Required()).
		MustBuild())

	owner := property(t, doc, "owner")
	name, ok := owner["properties"].(map[string]any)["name"].(map[string]any)
	if !ok || name["type"] != "string" {
		t.Errorf("unexpected nested property: %v", owner)
	}
	inner, _ := owner["required"].([]any)
	if len(inner) != 1 || inner[0] != "name" {
		t.Errorf("expected nested required [name], got %v", inner)
	}
	outer, _ := doc["required"].([]any)
	if len(outer) != 1 || outer[0] != "owner" {
		t.Errorf("expected outer required [owner], got %v", outer)
	}
}

func TestBuildRejectsInconsistentSchemas(t *testing.T) {
	tests := []struct {
		name    string
		builder Builder
		want    error
	}{
		{"string length bounds inverted", String().MinLength(9).MaxLength(3), ErrInvalidRange},
		{"pattern does not compile", String().Pattern(`(unclosed`), ErrInvalidPattern},
		{"integer bounds inverted", Int().Min(10).Max(1), ErrInvalidRange},
		{"number bounds inverted", Number().Min(2.5).Max(0.5), ErrInvalidRange},
		{"array item bounds inverted", Array(String()).MinItems(4).MaxItems(2), ErrInvalidRange},
		{"bad item schema inside array", Array(Int().Min(5).Max(0)), ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("object build names the offending field", func(t *testing.T) {
		_, err := Object().Field("count", Int().Min(7).Max(2)).Build()
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange, got %v", err)
		}
		var serr *SchemaError
		if !errors.As(err, &serr) {
			t.Fatalf("expected *SchemaError, got %T", err)
		}
		if serr.Field != "count" {
			t.Errorf("expected field count, got %q", serr.Field)
		}
	})
}

func TestMustBuild(t *testing.T) {
	t.Run("returns the document for a consistent schema", func(t *testing.T) {
		raw := String().MaxLength(12).MustBuild()
		if len(raw) == 0 {
			t.Error("expected a document")
		}
	})

	t.Run("panics on an inconsistent schema", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Int().Min(3).Max(1).MustBuild()
	})
}
