package tool

import (
	"context"
	"encoding/json"

	"github.com/troupe-dev/troupe/schema"
)

// Func builds a Tool from a typed handler. The parameter schema is derived
// from T's struct tags once, eagerly, so a broken tag surfaces here rather
// than on the first call.
func Func[T any](name, description string, fn func(ctx context.Context, args T) (any, error), opts ...Option) (*Tool, error) {
	params, err := schema.For[T]()
	if err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, args map[string]any) (any, error) {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}
		var typed T
		if err := json.Unmarshal(data, &typed); err != nil {
			return nil, err
		}
		return fn(ctx, typed)
	}
	return New(name, description, params, handler, opts...), nil
}

// MustFunc is like Func but panics if the schema cannot be derived from T.
// Use for tools constructed at package init with known-good argument types.
func MustFunc[T any](name, description string, fn func(ctx context.Context, args T) (any, error), opts ...Option) *Tool {
	t, err := Func(name, description, fn, opts...)
	if err != nil {
		panic(err)
	}
	return t
}
