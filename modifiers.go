package lollipop

import (
	"context"
	"reflect"
)

// Hook transforms a value on its way into or out of a Transform's inner
// type.
type Hook func(ctx context.Context, value any) (any, error)

// OptionalType makes values optional: missing or nil input yields a
// configured default instead of running the inner type. Load and dump
// defaults are configured independently and generator defaults are
// re-evaluated on every call.
type OptionalType struct {
	baseType
	inner       Type
	loadDefault func(context.Context) any
	dumpDefault func(context.Context) any
}

// Optional wraps inner so that missing or nil values load and dump to the
// configured defaults (nil unless set with WithLoadDefault/WithDumpDefault).
func Optional(inner Type, opts ...Option) *OptionalType {
	o := applyOptions(opts)
	return &OptionalType{
		baseType:    newBaseType("Optional", nil, o),
		inner:       inner,
		loadDefault: o.loadDefault,
		dumpDefault: o.dumpDefault,
	}
}

func (t *OptionalType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		if t.loadDefault == nil {
			return nil, nil
		}
		return t.loadDefault(ctx), nil
	}
	v, err := t.inner.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := t.runValidators(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (t *OptionalType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		if t.dumpDefault == nil {
			return nil, nil
		}
		return t.dumpDefault(ctx), nil
	}
	return t.inner.Dump(ctx, value)
}

func (t *OptionalType) Validate(ctx context.Context, data any) any {
	return validateWith(t, ctx, data)
}

// LoadInto forwards in-place updates to the inner type when it supports
// them.
func (t *OptionalType) LoadInto(ctx context.Context, obj any, data any, inplace bool) (any, error) {
	if isAbsent(data) {
		if t.loadDefault == nil {
			return nil, nil
		}
		return t.loadDefault(ctx), nil
	}
	var v any
	var err error
	if into, ok := t.inner.(typeIntoLoader); ok {
		v, err = into.LoadInto(ctx, obj, data, inplace)
	} else {
		v, err = t.inner.Load(ctx, data)
	}
	if err != nil {
		return nil, err
	}
	if err := t.runValidators(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadOnlyType proxies loading to the inner type and always dumps Missing
// without touching the inner type.
type LoadOnlyType struct {
	inner Type
}

// LoadOnly wraps inner into a load-only projection, e.g. passwords that are
// accepted on input but never serialized back.
func LoadOnly(inner Type) *LoadOnlyType { return &LoadOnlyType{inner: inner} }

func (t *LoadOnlyType) Load(ctx context.Context, data any) (any, error) {
	return t.inner.Load(ctx, data)
}

func (t *LoadOnlyType) Dump(ctx context.Context, value any) (any, error) {
	return Missing, nil
}

func (t *LoadOnlyType) Validate(ctx context.Context, data any) any {
	return validateWith(t, ctx, data)
}

// DumpOnlyType proxies dumping to the inner type and always loads Missing
// without touching the inner type.
type DumpOnlyType struct {
	inner Type
}

// DumpOnly wraps inner into a dump-only projection, e.g. server-assigned
// timestamps.
func DumpOnly(inner Type) *DumpOnlyType { return &DumpOnlyType{inner: inner} }

func (t *DumpOnlyType) Load(ctx context.Context, data any) (any, error) {
	return Missing, nil
}

func (t *DumpOnlyType) Dump(ctx context.Context, value any) (any, error) {
	return t.inner.Dump(ctx, value)
}

func (t *DumpOnlyType) Validate(ctx context.Context, data any) any {
	return validateWith(t, ctx, data)
}

// TransformType runs hooks around the inner type: load is
// postLoad(inner.Load(preLoad(data))) and dump is the mirror. Unset hooks
// default to identity.
type TransformType struct {
	inner                                Type
	preLoad, postLoad, preDump, postDump Hook
}

// Transform wraps inner with the pre/post hooks configured via WithPreLoad,
// WithPostLoad, WithPreDump and WithPostDump.
func Transform(inner Type, opts ...Option) *TransformType {
	o := applyOptions(opts)
	return &TransformType{
		inner:    inner,
		preLoad:  o.preLoad,
		postLoad: o.postLoad,
		preDump:  o.preDump,
		postDump: o.postDump,
	}
}

func applyHook(ctx context.Context, h Hook, v any) (any, error) {
	if h == nil {
		return v, nil
	}
	return h(ctx, v)
}

func (t *TransformType) Load(ctx context.Context, data any) (any, error) {
	v, err := applyHook(ctx, t.preLoad, data)
	if err != nil {
		return nil, err
	}
	v, err = t.inner.Load(ctx, v)
	if err != nil {
		return nil, err
	}
	return applyHook(ctx, t.postLoad, v)
}

func (t *TransformType) Dump(ctx context.Context, value any) (any, error) {
	v, err := applyHook(ctx, t.preDump, value)
	if err != nil {
		return nil, err
	}
	v, err = t.inner.Dump(ctx, v)
	if err != nil {
		return nil, err
	}
	return applyHook(ctx, t.postDump, v)
}

func (t *TransformType) Validate(ctx context.Context, data any) any {
	return validateWith(t, ctx, data)
}

// ConstantType verifies that loaded input equals a fixed expected value and
// contributes nothing to the result; dump ignores its input and always emits
// the fixed value.
type ConstantType struct {
	baseType
	value any
	inner Type
}

// Constant returns a type that pins a field to the given value. An inner
// type for converting the raw input before comparison may be supplied with
// ConstantOf.
func Constant(value any, opts ...Option) *ConstantType {
	return ConstantOf(value, Any(), opts...)
}

// ConstantOf is Constant with an explicit inner type run over the raw input
// before the equality check and over the fixed value on dump.
func ConstantOf(value any, inner Type, opts ...Option) *ConstantType {
	return &ConstantType{
		baseType: newBaseType("Constant", map[string]string{
			CodeValue: "Value should be {expected}",
		}, applyOptions(opts)),
		value: value,
		inner: inner,
	}
}

func (t *ConstantType) Load(ctx context.Context, data any) (any, error) {
	v, err := t.inner.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	if !constantMatches(t.value, v) {
		return nil, t.fail(CodeValue, map[string]any{"expected": t.value, "data": v})
	}
	return Missing, nil
}

// constantMatches compares input against the expected literal. Numeric
// literals match across the same coercion family the numeric types accept,
// so values arriving as json.Number or float64 from a generic decoder still
// verify against a declared Go constant.
func constantMatches(expected, v any) bool {
	if reflect.DeepEqual(v, expected) {
		return true
	}
	switch expected.(type) {
	case nil, string, bool:
		return false
	}
	ef, ok := coerceFloat(expected)
	if !ok {
		return false
	}
	vf, ok := coerceFloat(v)
	if !ok {
		return false
	}
	return ef == vf
}

func (t *ConstantType) Dump(ctx context.Context, value any) (any, error) {
	return t.inner.Dump(ctx, t.value)
}

func (t *ConstantType) Validate(ctx context.Context, data any) any {
	return validateWith(t, ctx, data)
}
