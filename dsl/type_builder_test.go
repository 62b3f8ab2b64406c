package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/structval"
	"github.com/reoring/structval/constraints"
	"github.com/reoring/structval/dsl"
)

type Profile struct {
	ID      int
	Nick    string
	Bio     *string
	Tags    []string
	Friends []*Profile
}

func TestTypeOf_FieldsAndFlags(t *testing.T) {
	td, err := dsl.TypeOf[Profile]().
		Field("id", dsl.Get(func(p Profile) int { return p.ID })).
		Constraint(constraints.Range(), structval.P("from", 1), structval.P("to", 10)).
		Field("nick", dsl.Get(func(p Profile) string { return p.Nick })).
		Field("bio", dsl.Get(func(p Profile) *string { return p.Bio })).
		Field("tags", dsl.Get(func(p Profile) []string { return p.Tags })).Nullable().
		Constraint(constraints.NotEmpty()).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "dsl_test.Profile", td.Name)
	// "nick" is primitive and carries no constraints, so it has nothing to check.
	names := make([]string, 0, len(td.Fields))
	for _, f := range td.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "bio", "tags"}, names)

	assert.True(t, td.Fields[0].Primitive)
	assert.False(t, td.Fields[1].Primitive)
	assert.False(t, td.Fields[1].Nullable)
	assert.True(t, td.Fields[2].Nullable)
	require.Len(t, td.Fields[2].Constraints, 1)
	assert.Equal(t, "not_empty", td.Fields[2].Constraints[0].Factory.Name())
}

func TestKeepUnchecked(t *testing.T) {
	td := dsl.Type("P").
		KeepUnchecked().
		Field("nick", dsl.Get(func(p Profile) string { return p.Nick })).
		MustBuild()
	require.Len(t, td.Fields, 1)
	assert.False(t, td.Fields[0].HasChecks())
}

func TestBuild_Errors(t *testing.T) {
	_, err := dsl.Type("P").
		Field("a", dsl.Key("a")).
		Field("a", dsl.Key("a")).
		Build()
	assert.ErrorIs(t, err, structval.ErrInvalidDescriptor)

	_, err = dsl.Type("P").Field("a", dsl.Access{}).Build()
	assert.ErrorIs(t, err, structval.ErrInvalidDescriptor)

	_, err = dsl.Type("").Field("a", dsl.Key("a")).Build()
	assert.ErrorIs(t, err, structval.ErrInvalidDescriptor)

	assert.Panics(t, func() { dsl.Type("").MustBuild() })
}

func TestGet_AcceptsValueAndPointer(t *testing.T) {
	td := dsl.TypeOf[Profile]().
		Field("bio", dsl.Get(func(p Profile) *string { return p.Bio })).
		MustBuild()
	acc := td.Fields[0].Accessor
	bio := "hi"

	assert.Equal(t, &bio, acc(Profile{Bio: &bio}))
	assert.Equal(t, &bio, acc(&Profile{Bio: &bio}))
	assert.Panics(t, func() { acc("not a profile") })
}

func TestKey(t *testing.T) {
	td := dsl.Type("Doc").Field("name", dsl.Key("name")).MustBuild()
	acc := td.Fields[0].Accessor

	assert.Equal(t, "x", acc(map[string]any{"name": "x"}))
	assert.Nil(t, acc(map[string]any{}))
	assert.Panics(t, func() { acc(42) })
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "dsl_test.Profile", dsl.TypeName[Profile]())
	assert.Equal(t, "dsl_test.Profile", dsl.TypeName[*Profile]())
	assert.Equal(t, "string", dsl.TypeName[string]())
}

func TestValidatedAndPrimitive(t *testing.T) {
	td := dsl.TypeOf[Profile]().
		Field("friends", dsl.Raw(func(v any) any { return v.(Profile).Friends })).Nullable().
		Validated("Friends").
		Field("nick", dsl.Get(func(p Profile) string { return p.Nick })).Primitive().NotNull().
		Constraint(constraints.NotBlank()).
		MustBuild()

	require.Len(t, td.Fields, 2)
	assert.Equal(t, []structval.NestedDescriptor{{Type: "Friends"}}, td.Fields[0].Nested)
	assert.True(t, td.Fields[1].Primitive)
}
