package structval_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/structval"
)

func TestContext_AddPathDoesNotMutate(t *testing.T) {
	root := structval.Root(false)
	parent := root.AddPath("customer")
	a := parent.AddPath("home")
	b := parent.AddPath("work")

	assert.Nil(t, root.Path())
	assert.Equal(t, []string{"customer"}, parent.Path())
	assert.Equal(t, []string{"customer", "home"}, a.Path())
	assert.Equal(t, []string{"customer", "work"}, b.Path())
	assert.Equal(t, "/customer/work", b.Pointer())
	assert.Equal(t, "/", root.Pointer())
}

func TestContext_PathIsACopy(t *testing.T) {
	ctx := structval.Root(false).AddPath("a")
	p := ctx.Path()
	p[0] = "mutated"
	assert.Equal(t, []string{"a"}, ctx.Path())
}

func TestContext_FailFastInherited(t *testing.T) {
	assert.False(t, structval.Root(false).AddPath("x").IsFailFast())
	assert.True(t, structval.Root(true).AddPath("x").AddPath("y").IsFailFast())
}

func TestContext_Violates(t *testing.T) {
	v := structval.Root(false).AddPath("a/b").AddPath("c~d").Violates("bad")
	assert.Equal(t, []string{"a/b", "c~d"}, v.Path)
	assert.Equal(t, "bad", v.Message)
	assert.Equal(t, "/a~1b/c~0d", v.Pointer())
	assert.Equal(t, "/a~1b/c~0d: bad", v.String())
}

func TestViolations_Error(t *testing.T) {
	assert.Equal(t, "", structval.Violations{}.Error())

	var vs structval.Violations
	for i := 0; i < 5; i++ {
		vs = append(vs, structval.Root(false).AddPath(fmt.Sprint("f", i)).Violates("bad"))
	}
	assert.Equal(t, "/f0: bad; /f1: bad; /f2: bad; ... (total 5)", vs.Error())
}

func TestAsViolations(t *testing.T) {
	_, ok := structval.AsViolations(nil)
	assert.False(t, ok)
	_, ok = structval.AsViolations(errors.New("other"))
	assert.False(t, ok)

	in := structval.Violations{structval.Root(false).Violates("x")}
	got, ok := structval.AsViolations(fmt.Errorf("wrapped: %w", in))
	require.True(t, ok)
	assert.Equal(t, in, got)
}

func TestIsNull(t *testing.T) {
	var nilMap map[string]int
	var nilIface fmt.Stringer
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "nil pointer", value: (*int)(nil), want: true},
		{name: "nil slice", value: []string(nil), want: true},
		{name: "nil map", value: nilMap, want: true},
		{name: "nil interface", value: nilIface, want: true},
		{name: "empty slice", value: []string{}, want: false},
		{name: "zero int", value: 0, want: false},
		{name: "empty string", value: "", want: false},
		{name: "struct", value: struct{}{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, structval.IsNull(tt.value))
		})
	}
}

func TestParams(t *testing.T) {
	ps := structval.Params{
		structval.P("i", 3),
		structval.P("f", 2.0),
		structval.P("frac", 2.5),
		structval.P("s", "x"),
		structval.P("ns", "12"),
	}

	i, err := ps.Int("i")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	i, err = ps.Int("f")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	i, err = ps.Int("ns")
	require.NoError(t, err)
	assert.Equal(t, 12, i)

	_, err = ps.Int("frac")
	assert.ErrorIs(t, err, structval.ErrInvalidParams)

	f, err := ps.Float("i")
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	s, err := ps.String("s")
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	_, err = ps.String("i")
	assert.ErrorIs(t, err, structval.ErrInvalidParams)

	_, err = ps.Int("missing")
	assert.ErrorIs(t, err, structval.ErrInvalidParams)
}
