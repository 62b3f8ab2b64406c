package structval

import (
	"errors"
	"strings"
)

// Configuration errors. They abort composition; validation problems are
// never reported through them.
var (
	// ErrInvalidDescriptor reports a malformed type or field descriptor.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	// ErrUnresolvedType reports a nested validation whose type has neither a
	// registered descriptor nor a supplied validator.
	ErrUnresolvedType = errors.New("unresolved type")
	// ErrInvalidParams reports constraint parameters rejected by a factory.
	ErrInvalidParams = errors.New("invalid constraint parameters")
)

// CompositionError identifies the type, field and constraint a configuration
// error was found in. Field and Constraint are empty when not applicable.
type CompositionError struct {
	Type       string
	Field      string
	Constraint string
	Err        error
}

func (e *CompositionError) Error() string {
	b := &strings.Builder{}
	b.WriteString("structval: compose ")
	b.WriteString(e.Type)
	if e.Field != "" {
		b.WriteByte('.')
		b.WriteString(e.Field)
	}
	if e.Constraint != "" {
		b.WriteString(" (")
		b.WriteString(e.Constraint)
		b.WriteByte(')')
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *CompositionError) Unwrap() error { return e.Err }
