package constraints

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/reoring/structval"
	"github.com/reoring/structval/i18n"
)

var (
	sizeFactory     = structval.NewResolvingFactory("size", resolveWith(structval.Params.Int, "from", "to"), newSize)
	notEmptyFactory = structval.NewFactory("not_empty", func(structval.Params) (structval.Validator, error) {
		return notEmpty{}, nil
	})
)

// Size requires a slice, array or map whose length lies in the inclusive
// range given by the "from" and "to" parameters.
func Size() structval.ConstraintFactory { return sizeFactory }

// NotEmpty requires a slice, array or map with at least one element.
func NotEmpty() structval.ConstraintFactory { return notEmptyFactory }

type size struct {
	from, to int
	data     map[string]string
}

func newSize(p structval.Params) (structval.Validator, error) {
	from, err := p.Int("from")
	if err != nil {
		return nil, err
	}
	to, err := p.Int("to")
	if err != nil {
		return nil, err
	}
	if from < 0 {
		return nil, fmt.Errorf("%w: From can't be less 0, but was: %d", structval.ErrInvalidParams, from)
	}
	if to < from {
		return nil, fmt.Errorf("%w: To can't be less than from (%d), but was: %d", structval.ErrInvalidParams, from, to)
	}
	return size{from: from, to: to, data: map[string]string{
		"from": strconv.Itoa(from),
		"to":   strconv.Itoa(to),
	}}, nil
}

func (s size) Validate(value any, ctx structval.Context) []structval.Violation {
	if structval.IsNull(value) {
		return []structval.Violation{ctx.Violatesf(i18n.CodeSizeNull, s.data)}
	}
	n := collectionLen("size", value)
	switch {
	case n < s.from:
		return []structval.Violation{ctx.Violatesf(i18n.CodeSizeSmaller, s.withSize(n))}
	case n > s.to:
		return []structval.Violation{ctx.Violatesf(i18n.CodeSizeGreater, s.withSize(n))}
	}
	return nil
}

func (s size) withSize(n int) map[string]string {
	return map[string]string{"from": s.data["from"], "to": s.data["to"], "size": strconv.Itoa(n)}
}

type notEmpty struct{}

func (notEmpty) Validate(value any, ctx structval.Context) []structval.Violation {
	if structval.IsNull(value) {
		return []structval.Violation{ctx.Violatesf(i18n.CodeNotEmptyNull, nil)}
	}
	if collectionLen("not_empty", value) == 0 {
		return []structval.Violation{ctx.Violatesf(i18n.CodeNotEmptyEmpty, nil)}
	}
	return nil
}

// collectionLen returns the element count of a slice, array or map, following
// pointers. Any other type is a programming error.
func collectionLen(constraint string, value any) int {
	rv := reflect.Indirect(reflect.ValueOf(value))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	default:
		panic(fmt.Sprintf("constraints: %s does not apply to %T", constraint, value))
	}
}
