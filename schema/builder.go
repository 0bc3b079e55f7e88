package schema

import (
	"encoding/json"
	"fmt"
)

// Builder is implemented by every schema builder kind. The unexported node
// method exposes the internal representation for composition, which keeps
// foreign implementations out of Field and Array.
type Builder interface {
	// Build serializes the schema, checking it for internal consistency.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error. Use for schemas
	// assembled from literals at package init.
	MustBuild() json.RawMessage

	node() *schemaNode
}

// chain holds the state and plumbing every builder kind shares. B is the
// concrete builder type, so shared methods stay chainable into typed ones:
// String().Desc("x").MinLength(1) type-checks because Desc returns the
// *StringBuilder it was called on.
type chain[B any] struct {
	n    *schemaNode
	self B
}

// Desc sets the description the model sees for this value.
func (c *chain[B]) Desc(description string) B {
	c.n.Description = description
	return c.self
}

// Required marks the field as required when handed to Object().Field.
func (c *chain[B]) Required() *RequiredField {
	return &RequiredField{n: c.n}
}

// Build serializes the schema, checking it for internal consistency.
func (c *chain[B]) Build() (json.RawMessage, error) {
	return buildNode(c.n)
}

// MustBuild is like Build but panics on error.
func (c *chain[B]) MustBuild() json.RawMessage {
	data, err := c.Build()
	if err != nil {
		panic(err)
	}
	return data
}

func (c *chain[B]) node() *schemaNode { return c.n }

// RequiredField pairs a property's schema with the required flag. Produced
// by Required on any builder, consumed by Field.
type RequiredField struct {
	n *schemaNode
}

// String starts a string schema.
func String() *StringBuilder {
	b := &StringBuilder{}
	b.chain = chain[*StringBuilder]{n: &schemaNode{Type: "string"}, self: b}
	return b
}

// StringBuilder builds string schemas.
type StringBuilder struct {
	chain[*StringBuilder]
}

// Enum restricts the value to the given strings.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.n.Enum = anySlice(values)
	return b
}

// MinLength sets the minimum length (inclusive).
func (b *StringBuilder) MinLength(n int) *StringBuilder {
	b.n.MinLength = ptr(n)
	return b
}

// MaxLength sets the maximum length (inclusive).
func (b *StringBuilder) MaxLength(n int) *StringBuilder {
	b.n.MaxLength = ptr(n)
	return b
}

// Pattern requires the value to match a regular expression (RE2 syntax).
func (b *StringBuilder) Pattern(regex string) *StringBuilder {
	b.n.Pattern = regex
	return b
}

// Default sets the value filled in when the argument is omitted.
func (b *StringBuilder) Default(value string) *StringBuilder {
	b.n.Default = value
	return b
}

// Int starts an integer schema.
func Int() *IntBuilder {
	b := &IntBuilder{}
	b.chain = chain[*IntBuilder]{n: &schemaNode{Type: "integer"}, self: b}
	return b
}

// IntBuilder builds integer schemas.
type IntBuilder struct {
	chain[*IntBuilder]
}

// Min sets the minimum value (inclusive).
func (b *IntBuilder) Min(n int) *IntBuilder {
	b.n.Minimum = ptr(float64(n))
	return b
}

// Max sets the maximum value (inclusive).
func (b *IntBuilder) Max(n int) *IntBuilder {
	b.n.Maximum = ptr(float64(n))
	return b
}

// Enum restricts the value to the given integers.
func (b *IntBuilder) Enum(values ...int) *IntBuilder {
	b.n.Enum = anySlice(values)
	return b
}

// Default sets the value filled in when the argument is omitted.
func (b *IntBuilder) Default(value int) *IntBuilder {
	b.n.Default = value
	return b
}

// Number starts a floating-point number schema.
func Number() *NumberBuilder {
	b := &NumberBuilder{}
	b.chain = chain[*NumberBuilder]{n: &schemaNode{Type: "number"}, self: b}
	return b
}

// NumberBuilder builds number schemas.
type NumberBuilder struct {
	chain[*NumberBuilder]
}

// Min sets the minimum value (inclusive).
func (b *NumberBuilder) Min(n float64) *NumberBuilder {
	b.n.Minimum = ptr(n)
	return b
}

// Max sets the maximum value (inclusive).
func (b *NumberBuilder) Max(n float64) *NumberBuilder {
	b.n.Maximum = ptr(n)
	return b
}

// Default sets the value filled in when the argument is omitted.
func (b *NumberBuilder) Default(value float64) *NumberBuilder {
	b.n.Default = value
	return b
}

// Bool starts a boolean schema.
func Bool() *BoolBuilder {
	b := &BoolBuilder{}
	b.chain = chain[*BoolBuilder]{n: &schemaNode{Type: "boolean"}, self: b}
	return b
}

// BoolBuilder builds boolean schemas.
type BoolBuilder struct {
	chain[*BoolBuilder]
}

// Default sets the value filled in when the argument is omitted.
func (b *BoolBuilder) Default(value bool) *BoolBuilder {
	b.n.Default = value
	return b
}

// Array starts an array schema whose elements match items.
func Array(items Builder) *ArrayBuilder {
	b := &ArrayBuilder{}
	b.chain = chain[*ArrayBuilder]{n: &schemaNode{Type: "array", Items: items.node()}, self: b}
	return b
}

// ArrayBuilder builds array schemas.
type ArrayBuilder struct {
	chain[*ArrayBuilder]
}

// MinItems sets the minimum number of elements (inclusive).
func (b *ArrayBuilder) MinItems(n int) *ArrayBuilder {
	b.n.MinItems = ptr(n)
	return b
}

// MaxItems sets the maximum number of elements (inclusive).
func (b *ArrayBuilder) MaxItems(n int) *ArrayBuilder {
	b.n.MaxItems = ptr(n)
	return b
}

// Default sets the value filled in when the argument is omitted.
func (b *ArrayBuilder) Default(value []any) *ArrayBuilder {
	b.n.Default = value
	return b
}

// Object starts an object schema. Tool parameter schemas are always objects
// at the top level.
func Object() *ObjectBuilder {
	b := &ObjectBuilder{}
	b.chain = chain[*ObjectBuilder]{
		n:    &schemaNode{Type: "object", Properties: map[string]*schemaNode{}},
		self: b,
	}
	return b
}

// ObjectBuilder builds object schemas.
type ObjectBuilder struct {
	chain[*ObjectBuilder]
}

// Field declares a property. field is any Builder, or a *RequiredField to
// declare the property and mark it required in one step.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.n.Properties[name] = f.n
		b.require(name)
	case Builder:
		b.n.Properties[name] = f.node()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

func (b *ObjectBuilder) require(name string) {
	for _, r := range b.n.Required {
		if r == name {
			return
		}
	}
	b.n.Required = append(b.n.Required, name)
}

// AdditionalProperties controls whether arguments not declared in the schema
// are allowed. Validate rejects undeclared arguments when this is false.
func (b *ObjectBuilder) AdditionalProperties(allowed bool) *ObjectBuilder {
	b.n.AdditionalProperties = ptr(allowed)
	return b
}

// Strict disallows undeclared arguments. Equivalent to
// AdditionalProperties(false); OpenAI strict mode requires it.
func (b *ObjectBuilder) Strict() *ObjectBuilder {
	return b.AdditionalProperties(false)
}

// anySlice widens a typed slice for the enum field.
func anySlice[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
