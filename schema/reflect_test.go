package schema

import (
	"encoding/json"
	"testing"
)

func assertJSONEqual(t *testing.T, got json.RawMessage, want map[string]any) {
	t.Helper()

	var gotMap map[string]any
	if err := json.Unmarshal(got, &gotMap); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}

	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(gotMap)

	if string(gotJSON) != string(wantJSON) {
		t.Errorf("JSON mismatch:\ngot:  %s\nwant: %s", gotJSON, wantJSON)
	}
}

func TestFor(t *testing.T) {
	t.Run("basic struct", func(t *testing.T) {
		type args struct {
			Location string `json:"location" desc:"City name" required:"true"`
			Days     int    `json:"days" desc:"Number of days"`
		}

		got, err := For[args]()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertJSONEqual(t, got, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{"type": "string", "description": "City name"},
				"days":     map[string]any{"type": "integer", "description": "Number of days"},
			},
			"required": []any{"location"},
		})
	})

	t.Run("enum and default tags", func(t *testing.T) {
		type args struct {
			Unit  string `json:"unit" enum:"celsius,fahrenheit" default:"celsius"`
			Level int    `json:"level" enum:"1,2,3" default:"2"`
			Loud  bool   `json:"loud" default:"true"`
		}

		got, err := For[args]()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertJSONEqual(t, got, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"unit":  map[string]any{"type": "string", "enum": []any{"celsius", "fahrenheit"}, "default": "celsius"},
				"level": map[string]any{"type": "integer", "enum": []any{1, 2, 3}, "default": 2},
				"loud":  map[string]any{"type": "boolean", "default": true},
			},
		})
	})

	t.Run("nested struct and slice", func(t *testing.T) {
		type coords struct {
			Lat float64 `json:"lat" required:"true"`
			Lon float64 `json:"lon" required:"true"`
		}
		type args struct {
			Where coords   `json:"where"`
			Tags  []string `json:"tags"`
		}

		got, err := For[args]()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertJSONEqual(t, got, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"where": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"lat": map[string]any{"type": "number"},
						"lon": map[string]any{"type": "number"},
					},
					"required": []any{"lat", "lon"},
				},
				"tags": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		})
	})

	t.Run("skips unexported and dashed fields", func(t *testing.T) {
		type args struct {
			Name   string `json:"name"`
			Secret string `json:"-"`
			hidden string `json:"hidden"`
		}
		_ = args{hidden: ""}

		got, err := For[args]()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertJSONEqual(t, got, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
			},
		})
	})

	t.Run("field name falls back to Go name", func(t *testing.T) {
		type args struct {
			Query string
		}

		got, err := For[args]()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertJSONEqual(t, got, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"Query": map[string]any{"type": "string"},
			},
		})
	})

	t.Run("pointer fields use the element type", func(t *testing.T) {
		type args struct {
			Count *int `json:"count"`
		}

		got, err := For[args]()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertJSONEqual(t, got, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"count": map[string]any{"type": "integer"},
			},
		})
	})

	t.Run("map fields become open objects", func(t *testing.T) {
		type args struct {
			Extra map[string]any `json:"extra"`
		}

		got, err := For[args]()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertJSONEqual(t, got, map[string]any{
			"type": "object",
			"properties": map[string]any{
				"extra": map[string]any{"type": "object"},
			},
		})
	})

	t.Run("non-struct type", func(t *testing.T) {
		if _, err := For[int](); err == nil {
			t.Fatal("expected error for non-struct type")
		}
	})

	t.Run("invalid default", func(t *testing.T) {
		type args struct {
			Count int `json:"count" default:"lots"`
		}
		if _, err := For[args](); err == nil {
			t.Fatal("expected error for non-integer default")
		}
	})
}

func TestMustFor(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("unexpected panic: %v", r)
			}
		}()
		type args struct {
			Name string `json:"name" required:"true"`
		}
		_ = MustFor[args]()
	})

	t.Run("panics on invalid type", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic, got none")
			}
		}()
		_ = MustFor[string]()
	})
}

func TestForValidateRoundTrip(t *testing.T) {
	// A derived schema must drive Validate the same way a built one does.
	type args struct {
		Query string `json:"query" desc:"Search query" required:"true"`
		Limit int    `json:"limit" default:"10"`
	}

	params := MustFor[args]()

	got, err := Validate(params, map[string]any{"query": "golang"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["query"] != "golang" {
		t.Errorf("expected query golang, got %v", got["query"])
	}
	if got["limit"] != float64(10) {
		t.Errorf("expected default limit 10, got %v", got["limit"])
	}

	if _, err := Validate(params, map[string]any{"limit": float64(5)}); err == nil {
		t.Fatal("expected missing required error")
	}
}
