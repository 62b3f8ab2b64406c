package structval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/reoring/structval/internal/canon"
)

// Composer turns type descriptors into composed validators. Each type is
// composed once and cached by name; later requests for the same type return
// the cached validator. A Composer may be shared between goroutines, calls
// are serialized internally.
type Composer struct {
	mu          sync.Mutex
	log         zerolog.Logger
	descriptors map[string]TypeDescriptor
	external    map[string]Validator
	built       map[string]*ComposedValidator
	inProgress  map[string]*forwardRef
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger that receives composition diagnostics at debug
// level. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Composer) { c.log = l }
}

// WithValidator supplies a ready-made validator for nested validations of the
// named type, taking precedence over any registered descriptor.
func WithValidator(typeName string, v Validator) Option {
	return func(c *Composer) {
		if v != nil {
			c.external[typeName] = v
		}
	}
}

// NewComposer returns an empty Composer.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		log:         zerolog.Nop(),
		descriptors: map[string]TypeDescriptor{},
		external:    map[string]Validator{},
		built:       map[string]*ComposedValidator{},
		inProgress:  map[string]*forwardRef{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Register makes descriptors available for nested validations. Registering a
// name twice is an error.
func (c *Composer) Register(tds ...TypeDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs *multierror.Error
	for _, td := range tds {
		if td.Name == "" {
			errs = multierror.Append(errs, &CompositionError{Err: fmt.Errorf("%w: empty type name", ErrInvalidDescriptor)})
			continue
		}
		if _, dup := c.descriptors[td.Name]; dup {
			errs = multierror.Append(errs, &CompositionError{Type: td.Name, Err: fmt.Errorf("%w: type registered twice", ErrInvalidDescriptor)})
			continue
		}
		c.descriptors[td.Name] = td
	}
	return errs.ErrorOrNil()
}

// Compose builds the validator for td, composing nested types on demand from
// registered descriptors. On error nothing built during the call is kept.
//
// Types are cached by name: composing a name that is already built returns
// the cached validator when td declares the same fields, flags, constraints
// and nested types, and fails with ErrInvalidDescriptor otherwise. Accessors
// are not compared.
func (c *Composer) Compose(td TypeDescriptor) (*ComposedValidator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.built[td.Name]; ok {
		if v.shape != shape(td) {
			return nil, &CompositionError{Type: td.Name, Err: fmt.Errorf("%w: type already composed from a different descriptor", ErrInvalidDescriptor)}
		}
		return v, nil
	}
	return c.composeRoot(td)
}

// Validator returns the validator of a registered type, composing it on first
// use.
func (c *Composer) Validator(typeName string) (*ComposedValidator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.built[typeName]; ok {
		return v, nil
	}
	td, ok := c.descriptors[typeName]
	if !ok {
		return nil, &CompositionError{Type: typeName, Err: ErrUnresolvedType}
	}
	return c.composeRoot(td)
}

func (c *Composer) composeRoot(td TypeDescriptor) (*ComposedValidator, error) {
	var created []string
	v, err := c.compose(td, &created)
	if err != nil {
		for _, name := range created {
			delete(c.built, name)
		}
		c.log.Debug().Str("type", td.Name).Strs("discarded", created).Err(err).Msg("composition failed")
		return nil, err
	}
	return v, nil
}

type constraintSlot struct {
	key     string
	field   string
	factory ConstraintFactory
	params  Params
}

type nestedSlot struct {
	typeName string
	field    string
}

func (c *Composer) compose(td TypeDescriptor, created *[]string) (*ComposedValidator, error) {
	if err := checkDescriptor(td); err != nil {
		return nil, err
	}

	ref := &forwardRef{name: td.Name}
	c.inProgress[td.Name] = ref
	defer delete(c.inProgress, td.Name)

	// Dependency collection: equal keys share the slot of their first
	// occurrence.
	var (
		errs        *multierror.Error
		cSlots      []constraintSlot
		nSlots      []nestedSlot
		cIndex      = map[string]int{}
		nIndex      = map[string]int{}
		factories   = map[string]ConstraintFactory{}
		fields      = make([]fieldPlan, 0, len(td.Fields))
		log         = c.log.With().Str("type", td.Name).Logger()
		constraints []Validator
		nested      []Validator
	)
	for _, f := range td.Fields {
		fp := fieldPlan{name: f.Name, access: f.Accessor, checkNull: !f.Nullable && !f.Primitive}
		for _, cd := range f.Constraints {
			name := cd.Factory.Name()
			if prev, ok := factories[name]; ok && !sameFactory(prev, cd.Factory) {
				errs = multierror.Append(errs, &CompositionError{Type: td.Name, Field: f.Name, Constraint: name,
					Err: fmt.Errorf("%w: another factory is already named %q", ErrInvalidDescriptor, name)})
				continue
			}
			factories[name] = cd.Factory
			key, params, err := constraintKey(cd)
			if err != nil {
				errs = multierror.Append(errs, &CompositionError{Type: td.Name, Field: f.Name, Constraint: name, Err: err})
				continue
			}
			idx, seen := cIndex[key]
			if seen {
				log.Debug().Str("field", f.Name).Str("key", key).Str("owner", cSlots[idx].field).Msg("constraint slot reused")
			} else {
				idx = len(cSlots)
				cIndex[key] = idx
				cSlots = append(cSlots, constraintSlot{key: key, field: f.Name, factory: cd.Factory, params: params})
				log.Debug().Str("field", f.Name).Str("key", key).Int("slot", idx).Msg("constraint slot allocated")
			}
			fp.constraints = append(fp.constraints, idx)
		}
		for _, nd := range f.Nested {
			idx, seen := nIndex[nd.Type]
			if !seen {
				idx = len(nSlots)
				nIndex[nd.Type] = idx
				nSlots = append(nSlots, nestedSlot{typeName: nd.Type, field: f.Name})
			}
			fp.nested = append(fp.nested, idx)
		}
		fields = append(fields, fp)
	}
	if errs != nil {
		return nil, errs.ErrorOrNil()
	}

	// Instantiation: one factory call per distinct constraint.
	constraints = make([]Validator, len(cSlots))
	for i, s := range cSlots {
		v, err := s.factory.Create(s.params)
		if err == nil && v == nil {
			err = errors.New("factory returned no validator")
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidParams) {
				err = fmt.Errorf("%w: %w", ErrInvalidParams, err)
			}
			errs = multierror.Append(errs, &CompositionError{Type: td.Name, Field: s.field, Constraint: s.key, Err: err})
			continue
		}
		constraints[i] = v
	}
	if errs != nil {
		return nil, errs.ErrorOrNil()
	}

	nested = make([]Validator, len(nSlots))
	for i, s := range nSlots {
		v, err := c.resolve(s.typeName, created)
		if err != nil {
			errs = multierror.Append(errs, &CompositionError{Type: td.Name, Field: s.field, Err: err})
			continue
		}
		nested[i] = v
	}
	if errs != nil {
		return nil, errs.ErrorOrNil()
	}

	slots := make([]Slot, 0, len(cSlots)+len(nSlots))
	for _, s := range cSlots {
		slots = append(slots, Slot{Kind: SlotConstraint, Key: s.key, Field: s.field})
	}
	for _, s := range nSlots {
		slots = append(slots, Slot{Kind: SlotNested, Key: s.typeName, Field: s.field})
	}

	cv := &ComposedValidator{
		name:        td.Name,
		constraints: constraints,
		nested:      nested,
		fields:      fields,
		slots:       slots,
		shape:       shape(td),
	}
	ref.bind(cv)
	c.built[td.Name] = cv
	*created = append(*created, td.Name)
	log.Debug().Int("fields", len(fields)).Int("constraints", len(constraints)).Int("nested", len(nested)).Msg("type composed")
	return cv, nil
}

// resolve finds the validator for a nested type. A type that is still being
// composed resolves to its forward reference, which is what lets cyclic type
// graphs terminate.
func (c *Composer) resolve(typeName string, created *[]string) (Validator, error) {
	if v, ok := c.external[typeName]; ok {
		return v, nil
	}
	if v, ok := c.built[typeName]; ok {
		return v, nil
	}
	if ref, ok := c.inProgress[typeName]; ok {
		c.log.Debug().Str("type", typeName).Msg("forward reference used")
		return ref, nil
	}
	td, ok := c.descriptors[typeName]
	if !ok {
		return nil, &CompositionError{Type: typeName, Err: ErrUnresolvedType}
	}
	return c.compose(td, created)
}

func checkDescriptor(td TypeDescriptor) error {
	if td.Name == "" {
		return &CompositionError{Err: fmt.Errorf("%w: empty type name", ErrInvalidDescriptor)}
	}
	var errs *multierror.Error
	seen := make(map[string]struct{}, len(td.Fields))
	for i, f := range td.Fields {
		fe := func(format string, a ...any) {
			errs = multierror.Append(errs, &CompositionError{Type: td.Name, Field: f.Name, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidDescriptor}, a...)...)})
		}
		if f.Name == "" {
			fe("field #%d has no name", i)
		} else if _, dup := seen[f.Name]; dup {
			fe("duplicate field")
		}
		seen[f.Name] = struct{}{}
		if f.Accessor == nil {
			fe("no accessor")
		}
		for j, cd := range f.Constraints {
			if cd.Factory == nil {
				fe("constraint #%d has no factory", j)
			}
		}
		for j, nd := range f.Nested {
			if nd.Type == "" {
				fe("nested validation #%d has no type", j)
			}
		}
	}
	return errs.ErrorOrNil()
}

// constraintKey returns the dedup key of cd together with the parameters the
// factory will be created with.
func constraintKey(cd ConstraintDescriptor) (string, Params, error) {
	params := cd.Params
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, dup := seen[p.Name]; dup {
			return "", nil, fmt.Errorf("%w: parameter %q given twice", ErrInvalidDescriptor, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	if r, ok := cd.Factory.(ParamResolver); ok {
		resolved, err := r.ResolveParams(params)
		if err != nil {
			if !errors.Is(err, ErrInvalidParams) {
				err = fmt.Errorf("%w: %w", ErrInvalidParams, err)
			}
			return "", nil, err
		}
		params = resolved
	}
	byName := make(map[string]any, len(params))
	for _, p := range params {
		byName[p.Name] = p.Value
	}
	key, err := canon.Key(cd.Factory.Name(), byName)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return key, params, nil
}

// sameFactory compares factories by identity. Values of a type that cannot be
// compared are never considered the same, so such a type must not be reused
// under one name; pointer factories such as those from NewFactory always can.
func sameFactory(a, b ConstraintFactory) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// shape summarises td without its accessors, which cannot be compared.
func shape(td TypeDescriptor) string {
	b := &strings.Builder{}
	for _, f := range td.Fields {
		fmt.Fprintf(b, "%s|%t|%t", f.Name, f.Nullable, f.Primitive)
		for _, cd := range f.Constraints {
			name := ""
			if cd.Factory != nil {
				name = cd.Factory.Name()
			}
			fmt.Fprintf(b, "|%s%v", name, cd.Params)
		}
		for _, nd := range f.Nested {
			fmt.Fprintf(b, "|>%s", nd.Type)
		}
		b.WriteByte(';')
	}
	return b.String()
}
