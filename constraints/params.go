package constraints

import "github.com/reoring/structval"

// resolveWith reads each named parameter through get and drops the rest, so
// that spellings like 2, 2.0 and "2" declare the same constraint.
func resolveWith[T any](get func(structval.Params, string) (T, error), names ...string) func(structval.Params) (structval.Params, error) {
	return func(p structval.Params) (structval.Params, error) {
		out := make(structval.Params, 0, len(names))
		for _, n := range names {
			v, err := get(p, n)
			if err != nil {
				return nil, err
			}
			out = append(out, structval.P(n, v))
		}
		return out, nil
	}
}
