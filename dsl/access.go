package dsl

import (
	"fmt"
	"reflect"

	"github.com/reoring/structval"
)

// Access reads a field value and knows whether that value can be null.
type Access struct {
	fn        structval.Accessor
	primitive bool
}

// Get reads a field of T (or *T) through fn. The field is primitive when F
// cannot hold nil.
func Get[T, F any](fn func(T) F) Access {
	return Access{
		fn: func(instance any) any {
			switch v := instance.(type) {
			case T:
				return fn(v)
			case *T:
				return fn(*v)
			default:
				panic(fmt.Sprintf("dsl: accessor for %s applied to %T", TypeName[T](), instance))
			}
		},
		primitive: !nillable(reflect.TypeFor[F]()),
	}
}

// Key reads an entry of a map[string]any document. A missing key reads as
// null.
func Key(name string) Access {
	return Access{fn: func(instance any) any {
		m, ok := instance.(map[string]any)
		if !ok {
			panic(fmt.Sprintf("dsl: key accessor %q applied to %T", name, instance))
		}
		return m[name]
	}}
}

// Raw wraps an arbitrary accessor. Its values are treated as nullable-capable.
func Raw(fn structval.Accessor) Access { return Access{fn: fn} }

// TypeName is the descriptor name used for T: its package-qualified name,
// with pointers dereferenced.
func TypeName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
