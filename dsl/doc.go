// Package dsl builds structval type descriptors for Go structs and decoded
// documents.
//
// Overview
//   - Builder API: declare fields with Type()/TypeOf[T]() then Field(), attach
//     Nullable()/Primitive()/Constraint()/Validated() and finish with Build()/MustBuild().
//   - Accessors: Get[T, F] reads a struct field through a typed func, Key reads a
//     map[string]any entry, Raw wraps any structval.Accessor.
//   - Extraction: fields that carry no check are dropped from the built descriptor
//     unless KeepUnchecked() is set.
//
// Entry points
//   - TypeOf[T](): descriptor named after T (see TypeName).
//   - Type(name): descriptor with an explicit name, typically for documents.
//
// File layout (roles)
//   - type_builder.go: typeBuilder/fieldStep and Build/MustBuild.
//   - access.go: Access, Get/Key/Raw and TypeName.
package dsl
