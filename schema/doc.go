// Package schema builds and enforces JSON Schema for tool parameters.
//
// Schemas can be constructed three ways: fluent builders, struct-tag
// reflection, or raw JSON. All three produce the same wire format, and all
// three feed the same argument validator that runs before a tool handler is
// invoked.
//
// # Fluent Builders
//
// Create schemas using the type constructors and chain constraint methods:
//
//	params := schema.Object().
//		Field("location", schema.String().Desc("City name").Required()).
//		Field("unit", schema.String().Enum("celsius", "fahrenheit")).
//		Field("days", schema.Int().Min(1).Max(14).Default(7)).
//		MustBuild()
//
// # Struct Tags
//
// For typed tools, derive the schema from a struct once at construction:
//
//	type forecastArgs struct {
//		Location string `json:"location" desc:"City name" required:"true"`
//		Unit     string `json:"unit" enum:"celsius,fahrenheit" default:"celsius"`
//		Days     int    `json:"days" default:"7"`
//	}
//
//	params := schema.MustFor[forecastArgs]()
//
// # Nested Objects
//
//	params := schema.Object().
//		Field("user", schema.Object().
//			Field("name", schema.String().Required()).
//			Field("age", schema.Int().Min(0)).
//			Required()).
//		Field("tags", schema.Array(schema.String()).MaxItems(10)).
//		MustBuild()
//
// # Argument Validation
//
// Validate checks a decoded argument map against a schema, fills declared
// defaults for missing keys, and reports the first violation:
//
//	args, err := schema.Validate(params, map[string]any{"location": "Oslo"})
//	// args["unit"] == "celsius", args["days"] == 7
//
// Missing required parameters, type mismatches, enum violations, and range
// violations all surface as a *troupe.ValidationError, which the tool
// runtime treats as non-retryable: bad arguments fail the same way every
// time, so the error goes straight back to the model instead of burning
// retry attempts.
//
// # Build Errors
//
// Use Build() instead of MustBuild() to handle construction errors:
//
//	params, err := schema.Object().
//		Field("count", schema.Int().Min(10).Max(5)).
//		Build()
//	if err != nil {
//		log.Fatal(err) // schema: property "count": minimum > maximum
//	}
//
// # Strict Mode
//
// Strict() sets additionalProperties to false, which both rejects
// undeclared arguments at validation time and satisfies OpenAI strict mode:
//
//	params := schema.Object().
//		Strict().
//		Field("name", schema.String().Required()).
//		MustBuild()
package schema
