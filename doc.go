// Package lollipop provides:
//
// - Declarative, bidirectional data schemas (Load raw data into values, Dump values back)
// - A hierarchical error model that mirrors the shape of the input (ValidationError)
// - Composable object schemas with inheritance, projections and in-place loading
// - Modifier types (Optional, LoadOnly, DumpOnly, Transform, Constant) and unions (OneOf)
// - A registry for mutually recursive schema definitions
//
// Design policy:
// - Schema construction errors (bad configuration) panic with *SchemaError;
//   data errors are returned as *ValidationError and merge into error trees.
// - Validators run on load only, after structural conversion.
// - Wire adapters live under source/ (source/json, source/yaml).
//
// Typical usage:
//
//	userType := lollipop.Object(lollipop.Fields{
//		"name":  lollipop.String(),
//		"age":   lollipop.Optional(lollipop.Integer()),
//		"email": lollipop.String(lollipop.WithValidators(lollipop.Regexp(`.+@.+`))),
//	})
//
//	user, err := userType.Load(ctx, raw)
//	wire, err := userType.Dump(ctx, user)
package lollipop
