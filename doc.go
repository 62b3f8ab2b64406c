// Package structval composes validators for structured values from
// declarative per-field descriptions.
//
// - A TypeDescriptor lists fields in declaration order, each with a
// nullability rule, constraint declarations and nested validations
// - A Composer turns descriptors into ComposedValidators, sharing one
// constraint validator between all fields that declare the same factory with
// equal parameters and resolving nested (even cyclic) types by name
// - Validation returns path-qualified Violations instead of stopping at the
// first error, unless the root Context is fail-fast
//
// Design policy:
// - The core never inspects Go types; descriptors are built with dsl/ or
// loaded by schemafile/.
// - Leaf constraints live in constraints/, messages in i18n/, the CLI in
// cmd/structval.
//
// Typical usage:
//
//	td, err := dsl.Type("User").
//	    Field("name", dsl.Get(func(u User) *string { return u.Name })).
//	    Field("tags", dsl.Get(func(u User) []string { return u.Tags })).Nullable().
//	    Constraint(constraints.Size(), structval.P("from", 1), structval.P("to", 5)).
//	    Build()
//	v, err := structval.NewComposer().Compose(td)
//	violations := v.Validate(user, structval.Root(false))
package structval
