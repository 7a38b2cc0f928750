package lollipop

import "context"

// options collects every setting the type constructors accept. Each
// constructor reads the subset relevant to it and ignores the rest.
type options struct {
	validators    []Validator
	errorMessages map[string]string

	format string

	keyType          Type
	defaultValueType Type

	loadDefault func(context.Context) any
	dumpDefault func(context.Context) any

	preLoad, postLoad, preDump, postDump Hook

	bases            []*ObjectType
	constructor      Constructor
	fieldFactory     FieldFactory
	allowExtraFields *bool
	immutable        *bool
	ordered          *bool
	only             []string
	exclude          []string

	loadHint LoadHint
	dumpHint DumpHint
}

// Option configures a type constructor.
type Option func(*options)

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithValidators appends validators to run after the type's own structural
// conversion succeeds.
func WithValidators(validators ...Validator) Option {
	return func(o *options) { o.validators = append(o.validators, validators...) }
}

// WithErrorMessages overrides entries of the type's error-message catalog.
// Messages may interpolate parameters with {name} placeholders.
func WithErrorMessages(messages map[string]string) Option {
	return func(o *options) {
		if o.errorMessages == nil {
			o.errorMessages = map[string]string{}
		}
		for k, v := range messages {
			o.errorMessages[k] = v
		}
	}
}

// WithFormat sets a temporal type's format: a named preset (for example
// "iso8601" or "rfc822") or a Go layout string.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithKeyType sets the type used to transform and validate Dict keys.
func WithKeyType(t Type) Option {
	return func(o *options) { o.keyType = t }
}

// WithDefaultValueType sets the Dict value type used for keys absent from a
// per-key type mapping.
func WithDefaultValueType(t Type) Option {
	return func(o *options) { o.defaultValueType = t }
}

// WithLoadDefault sets the literal an Optional loads when input is missing
// or nil.
func WithLoadDefault(value any) Option {
	return func(o *options) { o.loadDefault = func(context.Context) any { return value } }
}

// WithLoadDefaultFunc sets a generator for the Optional load default,
// evaluated fresh on every call.
func WithLoadDefaultFunc(fn func(ctx context.Context) any) Option {
	return func(o *options) { o.loadDefault = fn }
}

// WithDumpDefault sets the literal an Optional dumps when input is missing
// or nil.
func WithDumpDefault(value any) Option {
	return func(o *options) { o.dumpDefault = func(context.Context) any { return value } }
}

// WithDumpDefaultFunc sets a generator for the Optional dump default,
// evaluated fresh on every call.
func WithDumpDefaultFunc(fn func(ctx context.Context) any) Option {
	return func(o *options) { o.dumpDefault = fn }
}

// WithPreLoad installs a Transform hook applied to raw data before the inner
// type loads it.
func WithPreLoad(h Hook) Option { return func(o *options) { o.preLoad = h } }

// WithPostLoad installs a Transform hook applied to the inner type's load
// result.
func WithPostLoad(h Hook) Option { return func(o *options) { o.postLoad = h } }

// WithPreDump installs a Transform hook applied to a value before the inner
// type dumps it.
func WithPreDump(h Hook) Option { return func(o *options) { o.preDump = h } }

// WithPostDump installs a Transform hook applied to the inner type's dump
// result.
func WithPostDump(h Hook) Option { return func(o *options) { o.postDump = h } }

// WithBases declares base object schemas whose resolved fields are inherited,
// in the given order, ahead of the object's own field declarations.
func WithBases(bases ...*ObjectType) Option {
	return func(o *options) { o.bases = append(o.bases, bases...) }
}

// WithConstructor sets the callable invoked with the loaded field map to
// build the internal value. Without a constructor the plain map is the
// result.
func WithConstructor(c Constructor) Option {
	return func(o *options) { o.constructor = c }
}

// WithDefaultFieldFactory sets how bare Type declarations are wrapped into
// fields. The default wraps them with NewAttributeField.
func WithDefaultFieldFactory(f FieldFactory) Option {
	return func(o *options) { o.fieldFactory = f }
}

// WithAllowExtraFields controls whether input keys that match no declared
// field are ignored (true, the default) or reported as unknown errors.
func WithAllowExtraFields(allow bool) Option {
	return func(o *options) { o.allowExtraFields = &allow }
}

// WithImmutable marks an object schema immutable: LoadInto never mutates the
// target and always constructs a fresh value, recursively.
func WithImmutable(immutable bool) Option {
	return func(o *options) { o.immutable = &immutable }
}

// WithOrdered makes Dump emit an insertion-ordered map instead of a plain
// one.
func WithOrdered(ordered bool) Option {
	return func(o *options) { o.ordered = &ordered }
}

// WithOnly keeps only the named inherited fields. Fields declared by the
// object itself are never filtered.
func WithOnly(names ...string) Option {
	return func(o *options) { o.only = append(o.only, names...) }
}

// WithExclude drops the named inherited fields. Fields declared by the
// object itself are never filtered.
func WithExclude(names ...string) Option {
	return func(o *options) { o.exclude = append(o.exclude, names...) }
}

// WithLoadHint sets the discriminant extractor a tagged OneOf uses on load.
func WithLoadHint(h LoadHint) Option { return func(o *options) { o.loadHint = h } }

// WithDumpHint sets the discriminant extractor a tagged OneOf uses on dump.
func WithDumpHint(h DumpHint) Option { return func(o *options) { o.dumpHint = h } }
