package constraints

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/reoring/structval"
	"github.com/reoring/structval/i18n"
)

var rangeFactory = structval.NewResolvingFactory("range", resolveWith(structval.Params.Float, "from", "to"), newRange)

// Range requires a number in the inclusive range given by the "from" and
// "to" parameters.
func Range() structval.ConstraintFactory { return rangeFactory }

type numRange struct {
	from, to float64
	data     map[string]string
}

func newRange(p structval.Params) (structval.Validator, error) {
	from, err := p.Float("from")
	if err != nil {
		return nil, err
	}
	to, err := p.Float("to")
	if err != nil {
		return nil, err
	}
	if to < from {
		return nil, fmt.Errorf("%w: To can't be less than from (%s), but was: %s", structval.ErrInvalidParams, formatNum(from), formatNum(to))
	}
	return numRange{from: from, to: to, data: map[string]string{"from": formatNum(from), "to": formatNum(to)}}, nil
}

func (r numRange) Validate(value any, ctx structval.Context) []structval.Violation {
	if structval.IsNull(value) {
		return []structval.Violation{ctx.Violatesf(i18n.CodeRangeNull, r.data)}
	}
	n := numberOf(value)
	switch {
	case n < r.from:
		return []structval.Violation{ctx.Violatesf(i18n.CodeRangeSmaller, r.withValue(n))}
	case n > r.to:
		return []structval.Violation{ctx.Violatesf(i18n.CodeRangeGreater, r.withValue(n))}
	}
	return nil
}

func (r numRange) withValue(n float64) map[string]string {
	return map[string]string{"from": r.data["from"], "to": r.data["to"], "value": formatNum(n)}
}

func numberOf(value any) float64 {
	rv := reflect.Indirect(reflect.ValueOf(value))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		panic(fmt.Sprintf("constraints: range does not apply to %T", value))
	}
}

func formatNum(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
