package lollipop

import (
	"cmp"
	"context"
	"reflect"
	"regexp"
)

// Validator checks a single already-converted value. A failed check reports a
// *ValidationError; the returned tree is merged with failures from the other
// validators on the same type, so validators must be independent of each
// other. Validators hold configuration only and must not keep per-call state.
type Validator interface {
	Validate(ctx context.Context, value any) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, value any) error

func (f ValidatorFunc) Validate(ctx context.Context, value any) error { return f(ctx, value) }

// validatorBase carries a validator's message catalog.
type validatorBase struct {
	name     string
	messages map[string]string
}

func newValidatorBase(name string, defaults map[string]string, opts []Option) validatorBase {
	o := applyOptions(opts)
	messages := make(map[string]string, len(defaults)+len(o.errorMessages))
	for k, v := range defaults {
		messages[k] = v
	}
	for k, v := range o.errorMessages {
		messages[k] = v
	}
	return validatorBase{name: name, messages: messages}
}

func (v *validatorBase) fail(code string, params map[string]any) error {
	tmpl, ok := v.messages[code]
	if !ok {
		panic(schemaErrorf("error message %q is not defined for validator %s", code, v.name))
	}
	return &ValidationError{Messages: formatMessage(tmpl, params)}
}

// Predicate returns a validator that fails with the "invalid" message unless
// pred returns true.
func Predicate(pred func(ctx context.Context, value any) bool, opts ...Option) Validator {
	base := newValidatorBase("Predicate", map[string]string{
		CodeInvalid: "Invalid data",
	}, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		if !pred(ctx, value) {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		return nil
	})
}

// Range returns a validator that checks an ordered value is within
// [min, max]. Values of a different type than the bounds fail with the
// "invalid" message.
func Range[T cmp.Ordered](min, max T, opts ...Option) Validator {
	base := newValidatorBase("Range", map[string]string{
		CodeInvalid: "Invalid value type",
		"range":     "Value should be at least {min} and at most {max}",
	}, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		v, ok := value.(T)
		if !ok {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		if v < min || v > max {
			return base.fail("range", map[string]any{"data": v, "min": min, "max": max})
		}
		return nil
	})
}

// Min returns a validator that checks an ordered value is at least min.
func Min[T cmp.Ordered](min T, opts ...Option) Validator {
	base := newValidatorBase("Min", map[string]string{
		CodeInvalid: "Invalid value type",
		"min":       "Value should be at least {min}",
	}, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		v, ok := value.(T)
		if !ok {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		if v < min {
			return base.fail("min", map[string]any{"data": v, "min": min})
		}
		return nil
	})
}

// Max returns a validator that checks an ordered value is at most max.
func Max[T cmp.Ordered](max T, opts ...Option) Validator {
	base := newValidatorBase("Max", map[string]string{
		CodeInvalid: "Invalid value type",
		"max":       "Value should be at most {max}",
	}, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		v, ok := value.(T)
		if !ok {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		if v > max {
			return base.fail("max", map[string]any{"data": v, "max": max})
		}
		return nil
	})
}

func valueLength(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return len(v), true
	case []any:
		return len(v), true
	case map[string]any:
		return len(v), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len(), true
	}
	return 0, false
}

var lengthMessages = map[string]string{
	CodeInvalid: "Invalid value type",
	"exact":     "Length should be {exact}",
	"min":       "Length should be at least {min}",
	"max":       "Length should be at most {max}",
	"range":     "Length should be at least {min} and at most {max}",
}

// Length returns a validator that checks a value's length is exactly n.
func Length(n int, opts ...Option) Validator {
	base := newValidatorBase("Length", lengthMessages, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		length, ok := valueLength(value)
		if !ok {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		if length != n {
			return base.fail("exact", map[string]any{"data": value, "length": length, "exact": n})
		}
		return nil
	})
}

// LengthMin returns a validator that checks a value's length is at least n.
func LengthMin(n int, opts ...Option) Validator {
	base := newValidatorBase("LengthMin", lengthMessages, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		length, ok := valueLength(value)
		if !ok {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		if length < n {
			return base.fail("min", map[string]any{"data": value, "length": length, "min": n})
		}
		return nil
	})
}

// LengthMax returns a validator that checks a value's length is at most n.
func LengthMax(n int, opts ...Option) Validator {
	base := newValidatorBase("LengthMax", lengthMessages, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		length, ok := valueLength(value)
		if !ok {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		if length > n {
			return base.fail("max", map[string]any{"data": value, "length": length, "max": n})
		}
		return nil
	})
}

// LengthRange returns a validator that checks a value's length is within
// [min, max].
func LengthRange(min, max int, opts ...Option) Validator {
	base := newValidatorBase("LengthRange", lengthMessages, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		length, ok := valueLength(value)
		if !ok {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		if length < min || length > max {
			return base.fail("range", map[string]any{"data": value, "length": length, "min": min, "max": max})
		}
		return nil
	})
}

// AnyOf returns a validator that succeeds if the value is one of choices.
func AnyOf(choices []any, opts ...Option) Validator {
	base := newValidatorBase("AnyOf", map[string]string{
		CodeInvalid: "Invalid choice",
	}, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		for _, c := range choices {
			if reflect.DeepEqual(value, c) {
				return nil
			}
		}
		return base.fail(CodeInvalid, map[string]any{"data": value, "choices": choices})
	})
}

// NoneOf returns a validator that succeeds if the value is none of values.
func NoneOf(values []any, opts ...Option) Validator {
	base := newValidatorBase("NoneOf", map[string]string{
		CodeInvalid: "Invalid data",
	}, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		for _, v := range values {
			if reflect.DeepEqual(value, v) {
				return base.fail(CodeInvalid, map[string]any{"data": value, "values": values})
			}
		}
		return nil
	})
}

// Regexp returns a validator that checks a string value matches the given
// pattern. The pattern is compiled once at construction; an invalid pattern
// is a schema error.
func Regexp(pattern string, opts ...Option) Validator {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(schemaErrorf("invalid Regexp validator pattern %q: %v", pattern, err))
	}
	base := newValidatorBase("Regexp", map[string]string{
		CodeInvalid: "String does not match expected pattern",
	}, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		s, ok := value.(string)
		if !ok || !re.MatchString(s) {
			return base.fail(CodeInvalid, map[string]any{"data": value, "regexp": pattern})
		}
		return nil
	})
}

// Unique returns a validator that checks sequence elements are pairwise
// distinct.
func Unique(opts ...Option) Validator {
	base := newValidatorBase("Unique", map[string]string{
		CodeInvalid: "Invalid value type",
		"unique":    "There are duplicate values",
	}, opts)
	return ValidatorFunc(func(ctx context.Context, value any) error {
		seq, ok := asSequence(value)
		if !ok {
			return base.fail(CodeInvalid, map[string]any{"data": value})
		}
		for i, a := range seq {
			for _, b := range seq[:i] {
				if reflect.DeepEqual(a, b) {
					return base.fail("unique", map[string]any{"data": value, "duplicate": a})
				}
			}
		}
		return nil
	})
}

// Each returns a validator that runs the given validators against every
// sequence element, collecting failures under each element's index.
func Each(validators ...Validator) Validator {
	return ValidatorFunc(func(ctx context.Context, value any) error {
		seq, ok := asSequence(value)
		if !ok {
			return nil
		}
		var b ErrorBuilder
		for i, item := range seq {
			for _, v := range validators {
				if err := v.Validate(ctx, item); err != nil {
					ve, ok := AsValidationError(err)
					if !ok {
						return err
					}
					b.AddIndex(i, ve.Messages)
				}
			}
		}
		return b.Build()
	})
}
