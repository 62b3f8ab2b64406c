package structval

import (
	"fmt"
	"math"
	"strconv"
)

// ConstraintFactory builds configured constraint validators. Name identifies
// the factory: two constraint declarations with the same factory and equal
// parameters share one validator instance inside a composed validator, so
// Create must be deterministic and free of side effects for equal params.
// Distinct factories must not share a name within one composed type.
type ConstraintFactory interface {
	Name() string
	// Create returns a validator for params or an error when params break the
	// factory's contract (for example a negative lower bound).
	Create(params Params) (Validator, error)
}

// ParamResolver is implemented by factories that accept several spellings of
// one parameter value, such as 2, 2.0 and "2". The composer dedups and creates
// validators with the resolved parameters.
type ParamResolver interface {
	ResolveParams(params Params) (Params, error)
}

type factoryFunc struct {
	name    string
	fn      func(Params) (Validator, error)
	resolve func(Params) (Params, error)
}

func (f *factoryFunc) Name() string                            { return f.name }
func (f *factoryFunc) Create(params Params) (Validator, error) { return f.fn(params) }

func (f *factoryFunc) ResolveParams(params Params) (Params, error) {
	if f.resolve == nil {
		return params, nil
	}
	return f.resolve(params)
}

// NewFactory wraps fn as a ConstraintFactory named name. Each call returns a
// distinct factory.
func NewFactory(name string, fn func(Params) (Validator, error)) ConstraintFactory {
	return &factoryFunc{name: name, fn: fn}
}

// NewResolvingFactory is like NewFactory; resolve normalizes the declared
// parameters before they are compared and passed to fn.
func NewResolvingFactory(name string, resolve func(Params) (Params, error), fn func(Params) (Validator, error)) ConstraintFactory {
	return &factoryFunc{name: name, fn: fn, resolve: resolve}
}

// Param is one named constraint parameter.
type Param struct {
	Name  string
	Value any
}

// P is shorthand for Param{Name: name, Value: value}.
func P(name string, value any) Param { return Param{Name: name, Value: value} }

// Params is the ordered parameter list a constraint was declared with.
type Params []Param

// Get returns the value named name.
func (ps Params) Get(name string) (any, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Int returns the integral value named name. Floats are accepted when they
// hold a whole number, which is what JSON and YAML decoders produce.
func (ps Params) Int(name string) (int, error) {
	v, ok := ps.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: missing parameter %q", ErrInvalidParams, name)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return wholeFloat(name, float64(n))
	case float64:
		return wholeFloat(name, n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%w: parameter %q: %v", ErrInvalidParams, name, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: parameter %q must be an integer, got %T", ErrInvalidParams, name, v)
}

// Float returns the numeric value named name.
func (ps Params) Float(name string) (float64, error) {
	v, ok := ps.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: missing parameter %q", ErrInvalidParams, name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: parameter %q: %v", ErrInvalidParams, name, err)
		}
		return f, nil
	}
	i, err := ps.Int(name)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %q must be a number, got %T", ErrInvalidParams, name, v)
	}
	return float64(i), nil
}

// String returns the string value named name.
func (ps Params) String(name string) (string, error) {
	v, ok := ps.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: missing parameter %q", ErrInvalidParams, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: parameter %q must be a string, got %T", ErrInvalidParams, name, v)
	}
	return s, nil
}

func wholeFloat(name string, f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: parameter %q must be an integer, got %v", ErrInvalidParams, name, f)
	}
	return int(f), nil
}
