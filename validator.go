package structval

import "reflect"

// Validator checks a value and reports every violation it finds, in a
// deterministic order. Implementations never panic for values of the type they
// were built for and never return violations as errors.
type Validator interface {
	Validate(value any, ctx Context) []Violation
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(value any, ctx Context) []Violation

func (f ValidatorFunc) Validate(value any, ctx Context) []Violation { return f(value, ctx) }

// IsNull reports whether v is absent: an untyped nil or a nil pointer, map,
// slice, interface, func or chan. Empty non-nil collections are not null.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
