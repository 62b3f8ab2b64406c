package dsl

import (
	"errors"
	"fmt"

	"github.com/reoring/structval"
)

type typeBuilder struct {
	name     string
	fields   []structval.FieldDescriptor
	keepAll  bool
	problems []error
}

type fieldStep struct {
	b   *typeBuilder
	idx int
}

// Type starts a descriptor for the type called name.
func Type(name string) *typeBuilder {
	return &typeBuilder{name: name}
}

// TypeOf starts a descriptor named after T (see TypeName).
func TypeOf[T any]() *typeBuilder { return Type(TypeName[T]()) }

// Field appends a field read through acc. Fields are non-nullable unless
// marked otherwise; primitiveness comes from the accessor.
func (b *typeBuilder) Field(name string, acc Access) *fieldStep {
	if acc.fn == nil {
		b.problems = append(b.problems, fmt.Errorf("field %q: %w: no accessor", name, structval.ErrInvalidDescriptor))
	}
	b.fields = append(b.fields, structval.FieldDescriptor{
		Name:      name,
		Accessor:  acc.fn,
		Primitive: acc.primitive,
	})
	return &fieldStep{b: b, idx: len(b.fields) - 1}
}

// KeepUnchecked keeps fields that carry no check in the built descriptor.
// By default they are dropped, as they never produce violations.
func (b *typeBuilder) KeepUnchecked() *typeBuilder {
	b.keepAll = true
	return b
}

// Build returns the descriptor. It fails on fields declared twice or without
// an accessor.
func (b *typeBuilder) Build() (structval.TypeDescriptor, error) {
	problems := append([]error(nil), b.problems...)
	if b.name == "" {
		problems = append(problems, fmt.Errorf("%w: empty type name", structval.ErrInvalidDescriptor))
	}
	seen := map[string]struct{}{}
	fields := make([]structval.FieldDescriptor, 0, len(b.fields))
	for _, f := range b.fields {
		if _, dup := seen[f.Name]; dup {
			problems = append(problems, fmt.Errorf("field %q: %w: declared twice", f.Name, structval.ErrInvalidDescriptor))
			continue
		}
		seen[f.Name] = struct{}{}
		if !b.keepAll && !f.HasChecks() {
			continue
		}
		fields = append(fields, f)
	}
	if len(problems) > 0 {
		return structval.TypeDescriptor{}, fmt.Errorf("dsl: type %q: %w", b.name, errors.Join(problems...))
	}
	return structval.TypeDescriptor{Name: b.name, Fields: fields}, nil
}

// MustBuild is like Build but panics on error.
func (b *typeBuilder) MustBuild() structval.TypeDescriptor {
	td, err := b.Build()
	if err != nil {
		panic(err)
	}
	return td
}

func (f *fieldStep) field() *structval.FieldDescriptor { return &f.b.fields[f.idx] }

// Nullable lets the field hold null without a violation.
func (f *fieldStep) Nullable() *fieldStep {
	f.field().Nullable = true
	return f
}

// NotNull requires a non-null value (the default).
func (f *fieldStep) NotNull() *fieldStep {
	f.field().Nullable = false
	return f
}

// Primitive marks the field as never null, overriding the accessor's guess.
func (f *fieldStep) Primitive() *fieldStep {
	f.field().Primitive = true
	return f
}

// Constraint declares a constraint built by factory with params.
func (f *fieldStep) Constraint(factory structval.ConstraintFactory, params ...structval.Param) *fieldStep {
	fd := f.field()
	fd.Constraints = append(fd.Constraints, structval.ConstraintDescriptor{Factory: factory, Params: params})
	return f
}

// Validated delegates the field value to the validator of typeName.
func (f *fieldStep) Validated(typeName string) *fieldStep {
	fd := f.field()
	fd.Nested = append(fd.Nested, structval.NestedDescriptor{Type: typeName})
	return f
}

func (f *fieldStep) Field(name string, acc Access) *fieldStep { return f.b.Field(name, acc) }
func (f *fieldStep) KeepUnchecked() *typeBuilder              { return f.b.KeepUnchecked() }
func (f *fieldStep) Build() (structval.TypeDescriptor, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() structval.TypeDescriptor      { return f.b.MustBuild() }
