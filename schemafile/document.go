package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrRecursiveAlias is returned for a YAML alias that refers to a node
// containing it.
var ErrRecursiveAlias = errors.New("recursive YAML alias")

// DuplicateKeyError reports a key that appears twice in one YAML mapping of a
// data document.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// LoadDocument reads the data document at path.
func LoadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := DecodeDocument(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// DecodeDocument decodes data into JSON-like values: map[string]any, []any,
// string, float64 (int64 for YAML integers), bool and nil. Mapping keys are
// always strings; a YAML mapping that repeats a key is rejected with a
// *DuplicateKeyError and an alias nested in its own anchor with
// ErrRecursiveAlias.
func DecodeDocument(data []byte, format Format) (any, error) {
	if format == FormatJSON {
		var v any
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
			return nil, fmt.Errorf("schemafile: decode json: %w", err)
		}
		return v, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("schemafile: decode yaml: %w", err)
	}
	return nodeValue(&root, map[*yaml.Node]bool{})
}

// nodeValue converts n; expanding holds the anchored nodes whose aliases are
// being expanded on the current path.
func nodeValue(n *yaml.Node, expanding map[*yaml.Node]bool) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0], expanding)
	case yaml.AliasNode:
		if expanding[n.Alias] {
			return nil, fmt.Errorf("%w *%s at %d:%d", ErrRecursiveAlias, n.Value, n.Line, n.Column)
		}
		expanding[n.Alias] = true
		defer delete(expanding, n.Alias)
		return nodeValue(n.Alias, expanding)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if pos, dup := first[k.Value]; dup {
				return nil, &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			val, err := nodeValue(v, expanding)
			if err != nil {
				return nil, err
			}
			m[k.Value] = val
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c, expanding)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalarValue(n), nil
	default:
		return nil, nil
	}
}

// scalarValue falls back to the raw text for values its tag cannot parse.
func scalarValue(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}
