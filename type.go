package lollipop

import (
	"context"
)

// MissingType is the type of the Missing sentinel.
type MissingType struct{}

func (MissingType) String() string { return "<MISSING>" }

// Missing marks a value that was not supplied or extracted at all, as opposed
// to an explicit null. Fields that load or dump to Missing are omitted from
// the result entirely.
var Missing = MissingType{}

func isAbsent(v any) bool {
	return v == nil || v == Missing
}

// Type converts values between their external representation (plain scalars,
// sequences and string-keyed maps, as produced by a generic data decoder) and
// the application's internal representation.
//
// Load converts external to internal, Dump is the mirror. Both report invalid
// data with a *ValidationError carrying a complete error tree for the node
// and everything beneath it; a node either fully converts or fails with every
// problem found. Errors from application-supplied callables that are not
// validation errors propagate unchanged.
//
// Type instances are immutable configuration. Once constructed they are safe
// for concurrent use.
type Type interface {
	Load(ctx context.Context, data any) (any, error)
	Dump(ctx context.Context, value any) (any, error)

	// Validate attempts a load and returns the resulting error tree, or nil
	// when data is valid.
	Validate(ctx context.Context, data any) any
}

// validateWith implements Validate in terms of Load. Foreign errors from
// application callables become a single message in the tree.
func validateWith(t Type, ctx context.Context, data any) any {
	_, err := t.Load(ctx, data)
	if err == nil {
		return nil
	}
	if ve, ok := AsValidationError(err); ok {
		return ve.Messages
	}
	return err.Error()
}

// baseType carries the configuration every type variant shares: its validator
// list and its error-message catalog.
type baseType struct {
	name       string
	validators []Validator
	messages   map[string]string
}

func newBaseType(name string, defaults map[string]string, o *options) baseType {
	messages := make(map[string]string, len(commonMessages)+len(defaults)+len(o.errorMessages))
	for k, v := range commonMessages {
		messages[k] = v
	}
	for k, v := range defaults {
		messages[k] = v
	}
	for k, v := range o.errorMessages {
		messages[k] = v
	}
	return baseType{name: name, validators: o.validators, messages: messages}
}

// message renders the catalog entry for code. A code absent from the catalog
// is a schema misconfiguration.
func (t *baseType) message(code string, params map[string]any) string {
	tmpl, ok := t.messages[code]
	if !ok {
		panic(schemaErrorf("error message %q is not defined for type %s", code, t.name))
	}
	return formatMessage(tmpl, params)
}

// fail builds a *ValidationError from the catalog entry for code.
func (t *baseType) fail(code string, params map[string]any) error {
	return &ValidationError{Messages: t.message(code, params)}
}

// runValidators runs every configured validator against value, merging all
// failures; a later validator's failure never suppresses an earlier one's.
func (t *baseType) runValidators(ctx context.Context, value any) error {
	if len(t.validators) == 0 {
		return nil
	}
	var b ErrorBuilder
	for _, v := range t.validators {
		if err := v.Validate(ctx, value); err != nil {
			ve, ok := AsValidationError(err)
			if !ok {
				return err
			}
			b.AddErrors(ve.Messages)
		}
	}
	return b.Build()
}
