// Package canon computes canonical, value-based keys for constraint
// declarations. Two declarations with the same factory name and equal
// parameter values produce the same key regardless of the order the
// parameters were written in or the Go numeric type that carries them.
package canon

import (
	"strings"

	json "github.com/goccy/go-json"
)

// Key returns "<factory>" for a parameterless constraint and
// "<factory>(<canonical JSON of params>)" otherwise.
func Key(factory string, params map[string]any) (string, error) {
	if len(params) == 0 {
		return factory, nil
	}
	// Map keys are emitted sorted, which fixes the parameter order.
	b, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sb := strings.Builder{}
	sb.Grow(len(factory) + len(b) + 2)
	sb.WriteString(factory)
	sb.WriteByte('(')
	sb.Write(b)
	sb.WriteByte(')')
	return sb.String(), nil
}
