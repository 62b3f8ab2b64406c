// Package schemafile loads type descriptors for document data from YAML or
// JSON files.
//
// A schema file lists types whose instances are decoded documents
// (map[string]any). Each field names the document key it reads, its null
// handling, the constraints declared on it and the types it is validated
// against:
//
//	types:
//	  - name: Order
//	    fields:
//	      - name: items
//	        constraints:
//	          - factory: size
//	            params: {from: 1, to: 10}
//	        validate: [Item]
//	      - name: note
//	        nullable: true
//
// Fields that carry no check are dropped unless the type sets keep_unchecked.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/reoring/structval"
	"github.com/reoring/structval/constraints"
	"github.com/reoring/structval/dsl"
)

// Format selects the document syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// ErrUnknownFactory is returned when a field names a constraint factory that
// is not in the catalog.
var ErrUnknownFactory = errors.New("unknown constraint factory")

// FormatOf infers the format from a file extension. Anything other than
// .json is read as YAML, which is a superset of JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

type fileDoc struct {
	Types []typeDoc `yaml:"types" json:"types"`
}

type typeDoc struct {
	Name          string     `yaml:"name" json:"name"`
	KeepUnchecked bool       `yaml:"keep_unchecked" json:"keep_unchecked"`
	Fields        []fieldDoc `yaml:"fields" json:"fields"`
}

type fieldDoc struct {
	Name string `yaml:"name" json:"name"`
	// Key is the document key; it defaults to Name.
	Key         string          `yaml:"key" json:"key"`
	Nullable    bool            `yaml:"nullable" json:"nullable"`
	Primitive   bool            `yaml:"primitive" json:"primitive"`
	Constraints []constraintDoc `yaml:"constraints" json:"constraints"`
	Validate    []string        `yaml:"validate" json:"validate"`
}

type constraintDoc struct {
	Factory string         `yaml:"factory" json:"factory"`
	Params  map[string]any `yaml:"params" json:"params"`
}

// Loader turns schema documents into type descriptors.
type Loader struct {
	catalog map[string]structval.ConstraintFactory
}

// Option configures a Loader.
type Option func(*Loader)

// WithFactory adds or replaces a factory in the loader's catalog.
func WithFactory(f structval.ConstraintFactory) Option {
	return func(l *Loader) { l.catalog[f.Name()] = f }
}

// NewLoader returns a loader over the built-in constraint catalog.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{catalog: constraints.Catalog()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load reads and parses the schema file at path.
func (l *Loader) Load(path string) ([]structval.TypeDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tds, err := l.Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tds, nil
}

// Parse decodes a schema document. Unknown keys are rejected. All problems in
// the document are reported together.
func (l *Loader) Parse(data []byte, format Format) ([]structval.TypeDescriptor, error) {
	var doc fileDoc
	if err := decodeStrict(data, format, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: decode %s: %w", format, err)
	}

	var result *multierror.Error
	out := make([]structval.TypeDescriptor, 0, len(doc.Types))
	for _, t := range doc.Types {
		td, err := l.buildType(t)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		out = append(out, td)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) buildType(t typeDoc) (structval.TypeDescriptor, error) {
	b := dsl.Type(t.Name)
	if t.KeepUnchecked {
		b.KeepUnchecked()
	}
	var problems []error
	for _, f := range t.Fields {
		key := f.Key
		if key == "" {
			key = f.Name
		}
		step := b.Field(f.Name, dsl.Key(key))
		if f.Nullable {
			step.Nullable()
		}
		if f.Primitive {
			step.Primitive()
		}
		for _, c := range f.Constraints {
			factory, ok := l.catalog[c.Factory]
			if !ok {
				problems = append(problems, fmt.Errorf("schemafile: type %q field %q: %w %q", t.Name, f.Name, ErrUnknownFactory, c.Factory))
				continue
			}
			step.Constraint(factory, params(c.Params)...)
		}
		for _, typeName := range f.Validate {
			step.Validated(typeName)
		}
	}
	td, err := b.Build()
	if err != nil {
		problems = append(problems, err)
	}
	if len(problems) > 0 {
		return structval.TypeDescriptor{}, errors.Join(problems...)
	}
	return td, nil
}

// params sorts by name so descriptors built from the same document are
// identical regardless of map iteration order.
func params(m map[string]any) structval.Params {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make(structval.Params, 0, len(names))
	for _, n := range names {
		out = append(out, structval.P(n, m[n]))
	}
	return out
}

func decodeStrict(data []byte, format Format, dst any) error {
	if format == FormatJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(dst)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(dst)
}
