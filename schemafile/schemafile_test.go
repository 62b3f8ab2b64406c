package schemafile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/structval"
	"github.com/reoring/structval/schemafile"
)

const orderYAML = `
types:
  - name: Address
    fields:
      - name: lines
        constraints:
          - factory: size
            params: {from: 1, to: 2}
  - name: Order
    fields:
      - name: id
        constraints:
          - factory: pattern
            params: {regexp: "^o-[0-9]+$"}
      - name: shipTo
        key: ship_to
        validate: [Address]
      - name: note
        nullable: true
`

const orderJSON = `{
  "types": [
    {"name": "Address", "fields": [
      {"name": "lines", "constraints": [{"factory": "size", "params": {"from": 1, "to": 2}}]}
    ]},
    {"name": "Order", "fields": [
      {"name": "id", "constraints": [{"factory": "pattern", "params": {"regexp": "^o-[0-9]+$"}}]},
      {"name": "shipTo", "key": "ship_to", "validate": ["Address"]},
      {"name": "note", "nullable": true}
    ]}
  ]
}`

func composeOrder(t *testing.T, tds []structval.TypeDescriptor) *structval.ComposedValidator {
	t.Helper()
	c := structval.NewComposer()
	require.NoError(t, c.Register(tds...))
	v, err := c.Validator("Order")
	require.NoError(t, err)
	return v
}

func TestParse_YAMLAndJSONAgree(t *testing.T) {
	l := schemafile.NewLoader()
	fromYAML, err := l.Parse([]byte(orderYAML), schemafile.FormatYAML)
	require.NoError(t, err)
	fromJSON, err := l.Parse([]byte(orderJSON), schemafile.FormatJSON)
	require.NoError(t, err)

	for _, tds := range [][]structval.TypeDescriptor{fromYAML, fromJSON} {
		require.Len(t, tds, 2)
		order := tds[1]
		assert.Equal(t, "Order", order.Name)
		// "note" is nullable without checks and is dropped.
		require.Len(t, order.Fields, 2)
		assert.Equal(t, "shipTo", order.Fields[1].Name)
		assert.Equal(t, []structval.NestedDescriptor{{Type: "Address"}}, order.Fields[1].Nested)

		v := composeOrder(t, tds)
		doc := map[string]any{
			"id":      "x-1",
			"ship_to": map[string]any{"lines": []any{}},
		}
		got := v.Validate(doc, structval.Root(false))
		require.Len(t, got, 2)
		assert.Equal(t, "/id", got[0].Pointer())
		assert.Equal(t, "/shipTo/lines", got[1].Pointer())
		assert.Equal(t, "Size should be in range from '1' to '2', but was smaller: 0", got[1].Message)
	}
}

func TestParse_Errors(t *testing.T) {
	l := schemafile.NewLoader()

	_, err := l.Parse([]byte(`
types:
  - name: A
    fields:
      - name: x
        constraints: [{factory: nope}]
      - name: x
`), schemafile.FormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, schemafile.ErrUnknownFactory)
	assert.ErrorIs(t, err, structval.ErrInvalidDescriptor)

	_, err = l.Parse([]byte(`types: [{name: A, colour: red}]`), schemafile.FormatYAML)
	assert.Error(t, err)

	_, err = l.Parse([]byte(`{"types": [{"name": "A", "colour": "red"}]}`), schemafile.FormatJSON)
	assert.Error(t, err)
}

func TestParse_InvalidParamsSurfaceAtComposition(t *testing.T) {
	tds, err := schemafile.NewLoader().Parse([]byte(`
types:
  - name: A
    fields:
      - name: tags
        constraints: [{factory: size, params: {from: -1, to: 2}}]
`), schemafile.FormatYAML)
	require.NoError(t, err)

	_, err = structval.NewComposer().Compose(tds[0])
	assert.ErrorIs(t, err, structval.ErrInvalidParams)
}

func TestWithFactory(t *testing.T) {
	always := structval.NewFactory("always", func(structval.Params) (structval.Validator, error) {
		return structval.ValidatorFunc(func(_ any, ctx structval.Context) []structval.Violation {
			return []structval.Violation{ctx.Violates("always")}
		}), nil
	})
	tds, err := schemafile.NewLoader(schemafile.WithFactory(always)).Parse([]byte(`
types:
  - name: A
    fields:
      - {name: x, nullable: true, constraints: [{factory: always}]}
`), schemafile.FormatYAML)
	require.NoError(t, err)

	v, err := structval.NewComposer().Compose(tds[0])
	require.NoError(t, err)
	got := v.Validate(map[string]any{}, structval.Root(false))
	require.Len(t, got, 1)
	assert.Equal(t, "/x: always", got[0].String())
}

func TestLoadAndLoadDocument(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	dataPath := filepath.Join(dir, "order.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(orderJSON), 0o600))
	require.NoError(t, os.WriteFile(dataPath, []byte("id: o-7\nship_to:\n  lines: [a]\n"), 0o600))

	tds, err := schemafile.NewLoader().Load(schemaPath)
	require.NoError(t, err)
	doc, err := schemafile.LoadDocument(dataPath)
	require.NoError(t, err)

	assert.Empty(t, composeOrder(t, tds).Validate(doc, structval.Root(false)))

	_, err = schemafile.NewLoader().Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDecodeDocument(t *testing.T) {
	v, err := schemafile.DecodeDocument([]byte("1: one\nnested: {2: two}\nn: 3\nf: 1.5\nb: true\nz: ~\nbase: &b [x]\nref: *b\n"), schemafile.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"1":      "one",
		"nested": map[string]any{"2": "two"},
		"n":      int64(3),
		"f":      1.5,
		"b":      true,
		"z":      nil,
		"base":   []any{"x"},
		"ref":    []any{"x"},
	}, v)

	_, err = schemafile.DecodeDocument([]byte("a: 1\nb:\n  c: 1\n  c: 2\n"), schemafile.FormatYAML)
	var dup *schemafile.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "c", dup.Key)
	assert.Equal(t, 3, dup.FirstLine)
	assert.Equal(t, 4, dup.Line)

	v, err = schemafile.DecodeDocument([]byte(`{"a": [1, null]}`), schemafile.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{float64(1), nil}}, v)

	_, err = schemafile.DecodeDocument([]byte(`{`), schemafile.FormatJSON)
	assert.Error(t, err)
}

func TestDecodeDocument_RecursiveAlias(t *testing.T) {
	_, err := schemafile.DecodeDocument([]byte("a: &x\n  b: *x\n"), schemafile.FormatYAML)
	require.ErrorIs(t, err, schemafile.ErrRecursiveAlias)
	assert.Contains(t, err.Error(), "*x at 2:6")

	// The same anchor aliased twice side by side is not recursive.
	v, err := schemafile.DecodeDocument([]byte("a: &x {k: 1}\nb: [*x, *x]\n"), schemafile.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"k": int64(1)},
		"b": []any{map[string]any{"k": int64(1)}, map[string]any{"k": int64(1)}},
	}, v)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, schemafile.FormatJSON, schemafile.FormatOf("a/b.JSON"))
	assert.Equal(t, schemafile.FormatYAML, schemafile.FormatOf("a/b.yml"))
	assert.Equal(t, schemafile.FormatYAML, schemafile.FormatOf("noext"))
	assert.Equal(t, "json", schemafile.FormatJSON.String())
}
