package structval

// Accessor reads one field from an instance of the containing type.
type Accessor func(instance any) any

// TypeDescriptor describes one validated type. Fields are kept in declaration
// order, which is also the order violations are reported in.
type TypeDescriptor struct {
	// Name identifies the type; nested validations refer to it by this name.
	Name   string
	Fields []FieldDescriptor
}

// FieldDescriptor describes the checks applied to one field.
type FieldDescriptor struct {
	Name     string
	Accessor Accessor
	// Nullable fields skip the not-null check.
	Nullable bool
	// Primitive fields cannot hold null and also skip the not-null check.
	Primitive   bool
	Constraints []ConstraintDescriptor
	Nested      []NestedDescriptor
}

// HasChecks reports whether the field contributes any check at all.
func (f FieldDescriptor) HasChecks() bool {
	return (!f.Nullable && !f.Primitive) || len(f.Constraints) > 0 || len(f.Nested) > 0
}

// ConstraintDescriptor is a constraint factory together with the parameters
// to invoke it with.
type ConstraintDescriptor struct {
	Factory ConstraintFactory
	Params  Params
}

// NestedDescriptor delegates a field to the composed validator of Type.
type NestedDescriptor struct {
	Type string
}
