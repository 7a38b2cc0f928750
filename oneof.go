package lollipop

import (
	"context"
	"reflect"
)

// LoadHint inspects raw data and names the variant type that should handle
// it. Returning false means the data carries no recognizable tag.
type LoadHint func(ctx context.Context, data any) (string, bool)

// DumpHint names the variant type for an in-memory value on dump.
type DumpHint func(ctx context.Context, value any) (string, bool)

// OneOfType dispatches between alternative types. In list mode candidates
// are tried in order and the first success wins; in tagged mode hints
// select exactly one candidate by name.
type OneOfType struct {
	baseType
	candidates []Type
	variants   map[string]Type
	loadHint   LoadHint
	dumpHint   DumpHint
}

var oneOfMessages = map[string]string{
	CodeNoTypeMatched: "Value does not match any of the types",
	CodeUnknownTypeID: "Unknown type id {type_id}",
}

// OneOf builds a list-mode union: loading and dumping try each candidate in
// order and return the first result that is not a validation error.
func OneOf(candidates []Type, opts ...Option) *OneOfType {
	return &OneOfType{
		baseType:   newBaseType("OneOf", oneOfMessages, applyOptions(opts)),
		candidates: candidates,
	}
}

// TaggedOneOf builds a tagged union over named variants. The load and dump
// hints (WithLoadHint/WithDumpHint) extract the variant name; without a
// configured load hint, FieldLoadHint("type") is used, and without a dump
// hint, StructNameDumpHint is used.
func TaggedOneOf(variants map[string]Type, opts ...Option) *OneOfType {
	o := applyOptions(opts)
	t := &OneOfType{
		baseType: newBaseType("OneOf", oneOfMessages, o),
		variants: variants,
		loadHint: o.loadHint,
		dumpHint: o.dumpHint,
	}
	if t.loadHint == nil {
		t.loadHint = FieldLoadHint("type")
	}
	if t.dumpHint == nil {
		t.dumpHint = StructNameDumpHint
	}
	return t
}

// FieldLoadHint reads the given key of a mapping and uses its string value
// as the variant name.
func FieldLoadHint(key string) LoadHint {
	return func(ctx context.Context, data any) (string, bool) {
		m, ok := asMapping(data)
		if !ok {
			return "", false
		}
		v, ok := m[key]
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		return s, ok
	}
}

// StructNameDumpHint uses the value's type name as the variant name.
func StructNameDumpHint(ctx context.Context, value any) (string, bool) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return "", false
	}
	rt := rv.Type()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() == "" {
		return "", false
	}
	return rt.Name(), true
}

func (t *OneOfType) pick(ctx context.Context, hint func(context.Context, any) (string, bool), v any) (Type, error) {
	id, ok := hint(ctx, v)
	if !ok {
		return nil, t.fail(CodeUnknownTypeID, map[string]any{"type_id": Missing, "data": v})
	}
	variant, ok := t.variants[id]
	if !ok {
		return nil, t.fail(CodeUnknownTypeID, map[string]any{"type_id": id, "data": v})
	}
	return variant, nil
}

func (t *OneOfType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, map[string]any{"data": data})
	}
	if t.variants != nil {
		variant, err := t.pick(ctx, t.loadHint, data)
		if err != nil {
			return nil, err
		}
		return variant.Load(ctx, data)
	}
	for _, c := range t.candidates {
		v, err := c.Load(ctx, data)
		if err == nil {
			return v, nil
		}
		if _, ok := AsValidationError(err); !ok {
			return nil, err
		}
	}
	return nil, t.fail(CodeNoTypeMatched, map[string]any{"data": data})
}

func (t *OneOfType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, map[string]any{"data": value})
	}
	if t.variants != nil {
		variant, err := t.pick(ctx, t.dumpHint, value)
		if err != nil {
			return nil, err
		}
		return variant.Dump(ctx, value)
	}
	for _, c := range t.candidates {
		v, err := c.Dump(ctx, value)
		if err == nil {
			return v, nil
		}
		if _, ok := AsValidationError(err); !ok {
			return nil, err
		}
	}
	return nil, t.fail(CodeNoTypeMatched, map[string]any{"data": value})
}

func (t *OneOfType) Validate(ctx context.Context, data any) any {
	return validateWith(t, ctx, data)
}
