package lollipop

import (
	"context"
	"sort"
	"sync"

	"github.com/maximkulkin/lollipop/ordered"
)

// Fields declares an object's fields: values may be Type instances (wrapped
// with the object's default field factory), Field instances (used as-is) or
// bare literals (dumped verbatim and verified on load). Declarations resolve
// in sorted key order, after inherited fields.
type Fields map[string]any

// Constructor builds the internal value from a loaded field map. Without a
// constructor the loaded map itself is the result.
type Constructor func(ctx context.Context, fields map[string]any) (any, error)

// objectConfig is an object's effective configuration after inheritance
// resolution.
type objectConfig struct {
	constructor  Constructor
	fieldFactory FieldFactory
	allowExtra   bool
	immutable    bool
	ordered      bool
}

// ObjectType converts keyed maps to application objects and back, driving a
// Field per declared name. Schemas may inherit fields and configuration from
// base schemas; resolution happens once, on first use, after which the
// schema is immutable.
type ObjectType struct {
	baseType
	declared Fields
	bases    []*ObjectType
	only     []string
	exclude  []string

	constructor  Constructor
	fieldFactory FieldFactory
	allowExtra   *bool
	immutable    *bool
	ordered      *bool

	resolveOnce sync.Once
	fields      *ordered.Map[Field]
	cfg         objectConfig
}

// Object returns an object type over the given field declarations.
func Object(fields Fields, opts ...Option) *ObjectType {
	o := applyOptions(opts)
	return &ObjectType{
		baseType: newBaseType("Object", map[string]string{
			CodeInvalid: "Value should be dict",
			CodeUnknown: "Unknown field",
		}, o),
		declared:     fields,
		bases:        o.bases,
		only:         o.only,
		exclude:      o.exclude,
		constructor:  o.constructor,
		fieldFactory: o.fieldFactory,
		allowExtra:   o.allowExtraFields,
		immutable:    o.immutable,
		ordered:      o.ordered,
	}
}

// ---- inheritable configuration: own explicit setting wins, then the first
// base (in declaration order) with a setting, then the default ----

func (t *ObjectType) constructorSetting() Constructor {
	if t.constructor != nil {
		return t.constructor
	}
	for _, b := range t.bases {
		if c := b.constructorSetting(); c != nil {
			return c
		}
	}
	return nil
}

func (t *ObjectType) fieldFactorySetting() FieldFactory {
	if t.fieldFactory != nil {
		return t.fieldFactory
	}
	for _, b := range t.bases {
		if f := b.fieldFactorySetting(); f != nil {
			return f
		}
	}
	return nil
}

func boolSetting(own *bool, bases []*ObjectType, lookup func(*ObjectType) *bool) *bool {
	if own != nil {
		return own
	}
	for _, b := range bases {
		if v := lookup(b); v != nil {
			return v
		}
	}
	return nil
}

func (t *ObjectType) allowExtraSetting() *bool {
	return boolSetting(t.allowExtra, t.bases, (*ObjectType).allowExtraSetting)
}

func (t *ObjectType) immutableSetting() *bool {
	return boolSetting(t.immutable, t.bases, (*ObjectType).immutableSetting)
}

func (t *ObjectType) orderedSetting() *bool {
	return boolSetting(t.ordered, t.bases, (*ObjectType).orderedSetting)
}

// resolve computes the effective field set and configuration once: inherited
// fields in base order, filtered by only/exclude, then own declarations
// (which always survive the filters and override inherited names).
func (t *ObjectType) resolve() {
	t.resolveOnce.Do(func() {
		cfg := objectConfig{
			constructor:  t.constructorSetting(),
			fieldFactory: t.fieldFactorySetting(),
			allowExtra:   true,
		}
		if cfg.fieldFactory == nil {
			cfg.fieldFactory = func(ft Type) Field { return NewAttributeField(ft) }
		}
		if v := t.allowExtraSetting(); v != nil {
			cfg.allowExtra = *v
		}
		if v := t.immutableSetting(); v != nil {
			cfg.immutable = *v
		}
		if v := t.orderedSetting(); v != nil {
			cfg.ordered = *v
		}

		fields := ordered.NewMap[Field]()
		for _, base := range t.bases {
			base.resolve()
			base.fields.Each(func(name string, f Field) bool {
				fields.Set(name, f)
				return true
			})
		}
		if len(t.only) > 0 {
			keep := make(map[string]struct{}, len(t.only))
			for _, name := range t.only {
				keep[name] = struct{}{}
			}
			for _, name := range fields.Keys() {
				if _, ok := keep[name]; !ok {
					fields.Delete(name)
				}
			}
		}
		for _, name := range t.exclude {
			fields.Delete(name)
		}

		names := make([]string, 0, len(t.declared))
		for name := range t.declared {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fields.Set(name, t.makeField(t.declared[name], cfg.fieldFactory))
		}

		t.fields = fields
		t.cfg = cfg
	})
}

func (t *ObjectType) makeField(decl any, factory FieldFactory) Field {
	switch d := decl.(type) {
	case Field:
		return d
	case Type:
		return factory(d)
	default:
		// bare literal: dumped verbatim, verified on load
		return NewConstantField(Constant(d), d)
	}
}

// Fields returns the resolved field set in resolution order.
func (t *ObjectType) Fields() *ordered.Map[Field] {
	t.resolve()
	return t.fields
}

func (t *ObjectType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	src, ok := asMapping(data)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	t.resolve()

	var b ErrorBuilder
	result := map[string]any{}
	var walkErr error
	t.fields.Each(func(name string, field Field) bool {
		v, err := field.Load(ctx, name, src)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				walkErr = err
				return false
			}
			b.AddErrors(map[string]any{name: ve.Messages})
			return true
		}
		if v != Missing {
			result[name] = v
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if !t.cfg.allowExtra {
		extra := make([]string, 0)
		for name := range src {
			if !t.fields.Has(name) {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		for _, name := range extra {
			b.AddErrors(map[string]any{name: t.message(CodeUnknown, nil)})
		}
	}

	if err := b.Build(); err != nil {
		return nil, err
	}
	if err := t.runValidators(ctx, result); err != nil {
		return nil, err
	}
	return t.construct(ctx, result)
}

func (t *ObjectType) construct(ctx context.Context, result map[string]any) (any, error) {
	if t.cfg.constructor == nil {
		return result, nil
	}
	return t.cfg.constructor(ctx, result)
}

func (t *ObjectType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	t.resolve()

	var b ErrorBuilder
	var walkErr error
	plain := map[string]any{}
	var inOrder *ordered.Map[any]
	if t.cfg.ordered {
		inOrder = ordered.NewMap[any]()
	}
	t.fields.Each(func(name string, field Field) bool {
		v, err := field.Dump(ctx, name, value)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				walkErr = err
				return false
			}
			b.AddErrors(map[string]any{name: ve.Messages})
			return true
		}
		if v == Missing {
			return true
		}
		if inOrder != nil {
			inOrder.Set(name, v)
		} else {
			plain[name] = v
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if err := b.Build(); err != nil {
		return nil, err
	}
	if inOrder != nil {
		return inOrder, nil
	}
	return plain, nil
}

func (t *ObjectType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// LoadInto applies partial input to an existing object. Fields present in
// the input are loaded (recursing into nested in-place updates where the
// field type supports them); fields absent from the input keep their current
// values, so whole-object validators always see the complete merged view.
//
// If the schema is immutable or inplace is false, a brand-new object is
// constructed and the target (including nested sub-objects touched by the
// update) is left unmodified; this holds recursively. Otherwise loaded
// values are written back through each field's setter and the same object is
// returned.
//
// Missing data is a no-op and returns the target unchanged.
func (t *ObjectType) LoadInto(ctx context.Context, obj any, data any, inplace bool) (any, error) {
	if obj == nil {
		panic(schemaErrorf("LoadInto requires a target object"))
	}
	if data == Missing {
		return obj, nil
	}
	if data == nil {
		return nil, t.fail(CodeRequired, nil)
	}
	src, ok := asMapping(data)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	t.resolve()

	// once this branch is immutable, every nested update must copy too
	inplace = inplace && !t.cfg.immutable

	var b ErrorBuilder
	result := map[string]any{}
	var touched []string
	var walkErr error
	t.fields.Each(func(name string, field Field) bool {
		if _, present := src[name]; present {
			var v any
			var err error
			if into, ok := field.(intoLoader); ok {
				v, err = into.LoadInto(ctx, name, obj, src, inplace)
			} else {
				v, err = field.Load(ctx, name, src)
			}
			if err != nil {
				ve, ok := AsValidationError(err)
				if !ok {
					walkErr = err
					return false
				}
				b.AddErrors(map[string]any{name: ve.Messages})
				return true
			}
			if v != Missing {
				result[name] = v
				touched = append(touched, name)
			}
			return true
		}
		current, err := field.GetValue(ctx, name, obj)
		if err != nil {
			walkErr = err
			return false
		}
		if current != Missing {
			result[name] = current
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if err := b.Build(); err != nil {
		return nil, err
	}
	if err := t.runValidators(ctx, result); err != nil {
		return nil, err
	}

	if !inplace {
		return t.construct(ctx, result)
	}
	for _, name := range touched {
		field, _ := t.fields.Get(name)
		setter, ok := field.(ValueSetter)
		if !ok {
			continue
		}
		if err := setter.SetValue(ctx, name, obj, result[name]); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// ValidateFor dry-runs a partial update of obj with data and returns the
// resulting error tree, or nil when the update would be valid. The target
// object is never mutated.
func (t *ObjectType) ValidateFor(ctx context.Context, obj any, data any) any {
	_, err := t.LoadInto(ctx, obj, data, false)
	if err == nil {
		return nil
	}
	if ve, ok := AsValidationError(err); ok {
		return ve.Messages
	}
	return err.Error()
}
