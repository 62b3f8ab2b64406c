package constraints

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/reoring/structval"
	"github.com/reoring/structval/i18n"
)

var (
	notBlankFactory = structval.NewFactory("not_blank", func(structval.Params) (structval.Validator, error) {
		return notBlank{}, nil
	})
	patternFactory = structval.NewResolvingFactory("pattern", resolveWith(structval.Params.String, "regexp"), newPattern)
)

// NotBlank requires a string with at least one non-whitespace character.
func NotBlank() structval.ConstraintFactory { return notBlankFactory }

// Pattern requires a string matching the "regexp" parameter (RE2 syntax).
// An expression that does not compile is rejected when composing.
func Pattern() structval.ConstraintFactory { return patternFactory }

type notBlank struct{}

func (notBlank) Validate(value any, ctx structval.Context) []structval.Violation {
	if structval.IsNull(value) {
		return []structval.Violation{ctx.Violatesf(i18n.CodeNotBlankNull, nil)}
	}
	if strings.TrimSpace(stringOf("not_blank", value)) == "" {
		return []structval.Violation{ctx.Violatesf(i18n.CodeNotBlankBlank, nil)}
	}
	return nil
}

type pattern struct {
	re *regexp.Regexp
}

func newPattern(p structval.Params) (structval.Validator, error) {
	expr, err := p.String("regexp")
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", structval.ErrInvalidParams, err)
	}
	return pattern{re: re}, nil
}

func (p pattern) Validate(value any, ctx structval.Context) []structval.Violation {
	if structval.IsNull(value) {
		return []structval.Violation{ctx.Violatesf(i18n.CodePatternNull, map[string]string{"pattern": p.re.String()})}
	}
	s := stringOf("pattern", value)
	if !p.re.MatchString(s) {
		return []structval.Violation{ctx.Violatesf(i18n.CodePatternInvalid, map[string]string{"pattern": p.re.String(), "value": s})}
	}
	return nil
}

// stringOf accepts any string kind, following pointers.
func stringOf(constraint string, value any) string {
	rv := reflect.Indirect(reflect.ValueOf(value))
	if rv.Kind() != reflect.String {
		panic(fmt.Sprintf("constraints: %s does not apply to %T", constraint, value))
	}
	return rv.String()
}
