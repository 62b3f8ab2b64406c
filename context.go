package structval

import "github.com/reoring/structval/i18n"

// pathNode is one segment of a persistent path stack. Nodes are never
// mutated after creation, so siblings can share their parent.
type pathNode struct {
	parent  *pathNode
	segment string
	depth   int
}

// Context tracks the current field path and the fail-fast policy while a
// value is validated. It is an immutable value: AddPath returns a new Context
// and leaves the receiver untouched, which makes it safe to share between
// goroutines and to reuse across sibling fields.
type Context struct {
	path     *pathNode
	failFast bool
}

// Root returns a context at the validation root. failFast is fixed for the
// whole tree derived from it.
func Root(failFast bool) Context { return Context{failFast: failFast} }

// AddPath returns a context with segment appended to the current path.
func (c Context) AddPath(segment string) Context {
	depth := 1
	if c.path != nil {
		depth = c.path.depth + 1
	}
	return Context{path: &pathNode{parent: c.path, segment: segment, depth: depth}, failFast: c.failFast}
}

// Violates builds a Violation with msg at the current path.
func (c Context) Violates(msg string) Violation {
	return Violation{Path: c.Path(), Message: msg}
}

// Violatesf builds a Violation at the current path from an i18n message code.
func (c Context) Violatesf(code string, data map[string]string) Violation {
	return c.Violates(i18n.T(code, data))
}

// IsFailFast reports whether validation stops at the first failed check.
func (c Context) IsFailFast() bool { return c.failFast }

// Path returns a fresh copy of the current path segments, root first.
func (c Context) Path() []string {
	if c.path == nil {
		return nil
	}
	out := make([]string, c.path.depth)
	for n := c.path; n != nil; n = n.parent {
		out[n.depth-1] = n.segment
	}
	return out
}

// Pointer renders the current path as a JSON Pointer.
func (c Context) Pointer() string { return pointer(c.Path()) }
