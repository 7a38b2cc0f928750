package lollipop

import (
	"context"
	"encoding/json"
	"strconv"
)

// AnyType passes values through unchanged, running only its validators.
type AnyType struct {
	baseType
}

// Any returns a type that accepts any value without conversion.
func Any(opts ...Option) *AnyType {
	return &AnyType{baseType: newBaseType("Any", nil, applyOptions(opts))}
}

func (t *AnyType) Load(ctx context.Context, data any) (any, error) {
	if err := t.runValidators(ctx, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (t *AnyType) Dump(ctx context.Context, value any) (any, error) { return value, nil }

func (t *AnyType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// StringType requires string values exactly; no coercion is attempted.
type StringType struct {
	baseType
}

// String returns a string type.
func String(opts ...Option) *StringType {
	return &StringType{baseType: newBaseType("String", map[string]string{
		CodeInvalid: "Value should be string",
	}, applyOptions(opts))}
}

func (t *StringType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	s, ok := data.(string)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	if err := t.runValidators(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (t *StringType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	s, ok := value.(string)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	return s, nil
}

func (t *StringType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// IntegerType coerces Go integer and float kinds, json.Number and integral
// strings to int64. Fractional floats truncate toward zero, mirroring how
// generic decoders hand over numbers.
type IntegerType struct {
	baseType
}

// Integer returns an integer type. Loaded values are int64.
func Integer(opts ...Option) *IntegerType {
	return &IntegerType{baseType: newBaseType("Integer", map[string]string{
		CodeInvalid: "Value should be integer",
	}, applyOptions(opts))}
}

func coerceInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
		return 0, false
	}
	return 0, false
}

func (t *IntegerType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	n, ok := coerceInt(data)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	if err := t.runValidators(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (t *IntegerType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	n, ok := coerceInt(value)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	return n, nil
}

func (t *IntegerType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// FloatType coerces Go numeric kinds, json.Number and numeric strings to
// float64.
type FloatType struct {
	baseType
}

// Float returns a float type. Loaded values are float64.
func Float(opts ...Option) *FloatType {
	return &FloatType{baseType: newBaseType("Float", map[string]string{
		CodeInvalid: "Value should be float",
	}, applyOptions(opts))}
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
		return 0, false
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
		return 0, false
	}
	return 0, false
}

func (t *FloatType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	f, ok := coerceFloat(data)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	if err := t.runValidators(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (t *FloatType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	f, ok := coerceFloat(value)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	return f, nil
}

func (t *FloatType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// BooleanType requires bool values exactly.
type BooleanType struct {
	baseType
}

// Boolean returns a boolean type.
func Boolean(opts ...Option) *BooleanType {
	return &BooleanType{baseType: newBaseType("Boolean", map[string]string{
		CodeInvalid: "Value should be boolean",
	}, applyOptions(opts))}
}

func (t *BooleanType) Load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	b, ok := data.(bool)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	if err := t.runValidators(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (t *BooleanType) Dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	b, ok := value.(bool)
	if !ok {
		return nil, t.fail(CodeInvalid, nil)
	}
	return b, nil
}

func (t *BooleanType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }
