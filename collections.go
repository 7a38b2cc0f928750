package lollipop

import (
	"context"
	"sort"
)

// ListType converts homogeneous sequences, recursing into the item type for
// every element and collecting per-index failures.
type ListType struct {
	baseType
	itemType Type
}

// List returns a list type with the given element type.
func List(itemType Type, opts ...Option) *ListType {
	return &ListType{
		baseType: newBaseType("List", map[string]string{
			CodeInvalid: "Value should be list",
		}, applyOptions(opts)),
		itemType: itemType,
	}
}

func (t *ListType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	seq, ok := asSequence(data)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	var b ErrorBuilder
	items := make([]any, 0, len(seq))
	for i, item := range seq {
		v, err := t.itemType.Load(ctx, item)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			b.AddIndex(i, ve.Messages)
			continue
		}
		items = append(items, v)
	}
	if err := b.Build(); err != nil {
		return nil, err
	}
	if err := t.runValidators(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (t *ListType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	seq, ok := asSequence(value)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	var b ErrorBuilder
	items := make([]any, 0, len(seq))
	for i, item := range seq {
		v, err := t.itemType.Dump(ctx, item)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			b.AddIndex(i, ve.Messages)
			continue
		}
		items = append(items, v)
	}
	if err := b.Build(); err != nil {
		return nil, err
	}
	return items, nil
}

func (t *ListType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// TupleType converts fixed-arity heterogeneous sequences; element i is
// handled by item type i.
type TupleType struct {
	baseType
	itemTypes []Type
}

// Tuple returns a tuple type over the given item types. Input length must
// match exactly.
func Tuple(itemTypes []Type, opts ...Option) *TupleType {
	return &TupleType{
		baseType: newBaseType("Tuple", map[string]string{
			CodeInvalid:       "Value should be list",
			CodeInvalidLength: "Value length should be {expected_length}",
		}, applyOptions(opts)),
		itemTypes: itemTypes,
	}
}

func (t *TupleType) convert(ctx context.Context, seq []any, load bool) (any, error) {
	if len(seq) != len(t.itemTypes) {
		return nil, t.fail(CodeInvalidLength, map[string]any{"expected_length": len(t.itemTypes)})
	}
	var b ErrorBuilder
	items := make([]any, 0, len(seq))
	for i, itemType := range t.itemTypes {
		var v any
		var err error
		if load {
			v, err = itemType.Load(ctx, seq[i])
		} else {
			v, err = itemType.Dump(ctx, seq[i])
		}
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			b.AddIndex(i, ve.Messages)
			continue
		}
		items = append(items, v)
	}
	if err := b.Build(); err != nil {
		return nil, err
	}
	return items, nil
}

func (t *TupleType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	seq, ok := asSequence(data)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	items, err := t.convert(ctx, seq, true)
	if err != nil {
		return nil, err
	}
	if err := t.runValidators(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (t *TupleType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	seq, ok := asSequence(value)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	return t.convert(ctx, seq, false)
}

func (t *TupleType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// DictType converts string-keyed maps. Values are converted either by one
// uniform type or by a per-key type lookup; keys may additionally be run
// through a key type. Key and value failures for the same key merge under
// that key.
type DictType struct {
	baseType
	valueTypes       map[string]Type // nil means uniform
	defaultValueType Type            // uniform type, or per-key default; nil skips unlisted keys
	keyType          Type
}

// Dict returns a dict type. valueTypes is either a single Type applied to
// every value or a map[string]Type of per-key types; with a per-key map,
// keys not listed use WithDefaultValueType's type or are silently skipped.
// Passing nil means any value is accepted unchanged.
func Dict(valueTypes any, opts ...Option) *DictType {
	o := applyOptions(opts)
	t := &DictType{
		baseType: newBaseType("Dict", map[string]string{
			CodeInvalid: "Value should be dict",
		}, o),
		keyType: o.keyType,
	}
	switch vt := valueTypes.(type) {
	case nil:
		t.defaultValueType = Any()
	case map[string]Type:
		t.valueTypes = vt
		t.defaultValueType = o.defaultValueType
	case Type:
		t.defaultValueType = vt
	default:
		panic(schemaErrorf("Dict value types should be a Type or map[string]Type, got %T", valueTypes))
	}
	return t
}

func (t *DictType) valueTypeFor(key string) Type {
	if t.valueTypes != nil {
		if vt, ok := t.valueTypes[key]; ok {
			return vt
		}
	}
	return t.defaultValueType
}

func (t *DictType) convert(ctx context.Context, src map[string]any, load bool) (any, error) {
	// keys in sorted order for deterministic results
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b ErrorBuilder
	result := make(map[string]any, len(src))
	for _, k := range keys {
		vt := t.valueTypeFor(k)
		if vt == nil {
			continue
		}
		var keyErrors, valueErrors any
		outKey := k
		if t.keyType != nil {
			kv, err := t.convertOne(ctx, t.keyType, k, load)
			if err != nil {
				ve, ok := AsValidationError(err)
				if !ok {
					return nil, err
				}
				keyErrors = ve.Messages
			} else {
				ks, ok := kv.(string)
				if !ok {
					panic(schemaErrorf("Dict key type produced %T, want string", kv))
				}
				outKey = ks
			}
		}
		v, err := t.convertOne(ctx, vt, src[k], load)
		if err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return nil, err
			}
			valueErrors = ve.Messages
		}
		if keyErrors != nil || valueErrors != nil {
			b.AddErrors(map[string]any{k: MergeErrors(keyErrors, valueErrors)})
			continue
		}
		result[outKey] = v
	}
	if err := b.Build(); err != nil {
		return nil, err
	}
	return result, nil
}

func (t *DictType) convertOne(ctx context.Context, vt Type, v any, load bool) (any, error) {
	if load {
		return vt.Load(ctx, v)
	}
	return vt.Dump(ctx, v)
}

func (t *DictType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	src, ok := asMapping(data)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	result, err := t.convert(ctx, src, true)
	if err != nil {
		return nil, err
	}
	if err := t.runValidators(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (t *DictType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	src, ok := asMapping(value)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	return t.convert(ctx, src, false)
}

func (t *DictType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }
