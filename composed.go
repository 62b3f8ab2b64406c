package structval

import "github.com/reoring/structval/i18n"

// SlotKind distinguishes the two kinds of dependencies a composed validator
// holds.
type SlotKind int

const (
	SlotConstraint SlotKind = iota
	SlotNested
)

func (k SlotKind) String() string {
	switch k {
	case SlotConstraint:
		return "constraint"
	case SlotNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Slot describes one deduplicated dependency: a constraint validator keyed by
// factory and parameters, or a nested validator keyed by type name. Field is
// the first field that declared it.
type Slot struct {
	Kind  SlotKind
	Key   string
	Field string
}

type fieldPlan struct {
	name        string
	access      Accessor
	checkNull   bool
	constraints []int // indexes into ComposedValidator.constraints
	nested      []int // indexes into ComposedValidator.nested
}

// ComposedValidator validates instances of one described type. It is
// immutable after composition and safe for concurrent use.
type ComposedValidator struct {
	name        string
	constraints []Validator
	nested      []Validator
	fields      []fieldPlan
	slots       []Slot
	shape       string
}

var _ Validator = (*ComposedValidator)(nil)

// Name returns the described type name.
func (v *ComposedValidator) Name() string { return v.name }

// Slots returns the dependency table, constraints first, each group in
// first-seen order.
func (v *ComposedValidator) Slots() []Slot {
	out := make([]Slot, len(v.slots))
	copy(out, v.slots)
	return out
}

// Validate checks value field by field in declaration order. Within a field
// the not-null check runs first, then constraints, then nested validations,
// each in declared order. In fail-fast mode the call returns as soon as a
// check reports anything.
func (v *ComposedValidator) Validate(value any, ctx Context) []Violation {
	if IsNull(value) {
		return []Violation{ctx.Violatesf(i18n.CodeInputNull, nil)}
	}

	failFast := ctx.IsFailFast()
	var out []Violation
	for i := range v.fields {
		f := &v.fields[i]
		fctx := ctx.AddPath(f.name)
		fv := f.access(value)
		null := IsNull(fv)

		if f.checkNull && null {
			out = append(out, fctx.Violatesf(i18n.CodeNotNull, nil))
			if failFast {
				return out
			}
		}

		for _, idx := range f.constraints {
			out = append(out, v.constraints[idx].Validate(fv, fctx)...)
			if failFast && len(out) > 0 {
				return out
			}
		}

		// A null value is reported by the not-null check only.
		if null {
			continue
		}
		for _, idx := range f.nested {
			res := v.nested[idx].Validate(fv, fctx)
			out = append(out, res...)
			if failFast && len(res) > 0 {
				return out
			}
		}
	}
	return out
}

// forwardRef stands in for a validator whose type is still being composed.
type forwardRef struct {
	name   string
	target *ComposedValidator
}

func (r *forwardRef) bind(v *ComposedValidator) { r.target = v }

func (r *forwardRef) Validate(value any, ctx Context) []Violation {
	if r.target == nil {
		panic("structval: validator for " + r.name + " used before its composition finished")
	}
	return r.target.Validate(value, ctx)
}
