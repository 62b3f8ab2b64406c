package structval

import (
	"errors"
	"fmt"
	"strings"
)

// Violation is a single validation failure anchored at a field path.
type Violation struct {
	Path    []string // Field-name segments from the validation root.
	Message string
}

// Pointer renders the path as a JSON Pointer (for example: /address/street).
func (v Violation) Pointer() string { return pointer(v.Path) }

func (v Violation) String() string { return v.Pointer() + ": " + v.Message }

// Violations is a collection of violations that implements error.
type Violations []Violation

// Error summarizes the first few violations.
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(vs)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(vs[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Messages returns the messages reported at the given JSON Pointer.
func (vs Violations) Messages(ptr string) []string {
	var out []string
	for _, v := range vs {
		if v.Pointer() == ptr {
			out = append(out, v.Message)
		}
	}
	return out
}

// AsViolations extracts Violations from an error using errors.As internally.
func AsViolations(err error) (Violations, bool) {
	if err == nil {
		return nil, false
	}
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}

// Check validates value with a fresh root context and returns the violations
// as an error, or nil when value is valid.
func Check(v Validator, value any, failFast bool) error {
	if vs := v.Validate(value, Root(failFast)); len(vs) > 0 {
		return Violations(vs)
	}
	return nil
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// pointer escapes segments per RFC 6901.
func pointer(path []string) string {
	if len(path) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range path {
		b.WriteByte('/')
		pointerEscaper.WriteString(b, seg)
	}
	return b.String()
}
