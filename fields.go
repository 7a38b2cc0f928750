package lollipop

import (
	"context"
	"reflect"
)

// Field defines how an Object extracts a value from an application object on
// dump and how it obtains a value from raw input on load. The field name
// passed to every method is the logical name the Object declared the field
// under.
type Field interface {
	// GetValue extracts the field's current value from obj, or Missing when
	// the object has no such value.
	GetValue(ctx context.Context, name string, obj any) (any, error)

	// Load produces the field's internal value from the raw input mapping,
	// or Missing when the field contributes nothing to the loaded result.
	Load(ctx context.Context, name string, data map[string]any) (any, error)

	// Dump produces the field's external value from obj, or Missing to omit
	// the field from the output.
	Dump(ctx context.Context, name string, obj any) (any, error)
}

// ValueSetter is implemented by fields that can deposit a loaded value back
// into an existing application object.
type ValueSetter interface {
	SetValue(ctx context.Context, name string, obj any, value any) error
}

// intoLoader is implemented by fields that support partial in-place updates.
type intoLoader interface {
	LoadInto(ctx context.Context, name string, obj any, data map[string]any, inplace bool) (any, error)
}

// typeIntoLoader is implemented by type variants (Object and its proxies)
// that support recursive in-place updates.
type typeIntoLoader interface {
	LoadInto(ctx context.Context, obj any, data any, inplace bool) (any, error)
}

// FieldFactory wraps a bare Type declaration into a Field. Objects use their
// effective factory for every field declared as a plain Type.
type FieldFactory func(fieldType Type) Field

// FieldOption configures a field constructor.
type FieldOption func(*fieldOpts)

type fieldOpts struct {
	attribute     string
	method        string
	setMethod     string
	nameTransform NameTransform
	set           SetFunc
}

// WithAttribute overrides the physical attribute name an AttributeField
// resolves against the application object.
func WithAttribute(name string) FieldOption {
	return func(o *fieldOpts) { o.attribute = name }
}

// WithMethod overrides the accessor method name a MethodField invokes.
func WithMethod(name string) FieldOption {
	return func(o *fieldOpts) { o.method = name }
}

// WithSetMethod sets the mutator method name a MethodField invokes to store
// a loaded value.
func WithSetMethod(name string) FieldOption {
	return func(o *fieldOpts) { o.setMethod = name }
}

// WithNameTransform derives physical names from logical field names, for
// systematic case-convention mapping.
func WithNameTransform(t NameTransform) FieldOption {
	return func(o *fieldOpts) { o.nameTransform = t }
}

// WithSetFunc sets the mutator callable of a FunctionField.
func WithSetFunc(set SetFunc) FieldOption {
	return func(o *fieldOpts) { o.set = set }
}

func applyFieldOptions(opts []FieldOption) *fieldOpts {
	o := &fieldOpts{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AttributeField reads and writes a named attribute of the application
// object: a map entry for map[string]any objects, a struct field otherwise.
// On load it reads the raw input mapping under the logical field name
// directly; the physical name applies to the application object only.
type AttributeField struct {
	fieldType     Type
	attribute     string
	nameTransform NameTransform
}

// NewAttributeField returns a field backed by object attribute access.
func NewAttributeField(fieldType Type, opts ...FieldOption) *AttributeField {
	o := applyFieldOptions(opts)
	return &AttributeField{fieldType: fieldType, attribute: o.attribute, nameTransform: o.nameTransform}
}

// FieldType returns the type converting this field's values.
func (f *AttributeField) FieldType() Type { return f.fieldType }

func (f *AttributeField) physicalName(name string) string {
	if f.attribute != "" {
		return f.attribute
	}
	if f.nameTransform != nil {
		return f.nameTransform(name)
	}
	return name
}

func (f *AttributeField) GetValue(ctx context.Context, name string, obj any) (any, error) {
	return attrValue(obj, f.physicalName(name)), nil
}

func (f *AttributeField) SetValue(ctx context.Context, name string, obj any, value any) error {
	setAttrValue(obj, f.physicalName(name), value)
	return nil
}

func (f *AttributeField) Load(ctx context.Context, name string, data map[string]any) (any, error) {
	value, ok := data[name]
	if !ok {
		value = Missing
	}
	return f.fieldType.Load(ctx, value)
}

func (f *AttributeField) Dump(ctx context.Context, name string, obj any) (any, error) {
	value, err := f.GetValue(ctx, name, obj)
	if err != nil {
		return nil, err
	}
	return f.fieldType.Dump(ctx, value)
}

// LoadInto loads the field's raw value, recursing into the field type's own
// in-place update when the target already holds a value for it.
func (f *AttributeField) LoadInto(ctx context.Context, name string, obj any, data map[string]any, inplace bool) (any, error) {
	raw, ok := data[name]
	if !ok {
		return Missing, nil
	}
	if into, ok := f.fieldType.(typeIntoLoader); ok {
		current, err := f.GetValue(ctx, name, obj)
		if err != nil {
			return nil, err
		}
		if !isAbsent(current) {
			return into.LoadInto(ctx, current, raw, inplace)
		}
	}
	return f.fieldType.Load(ctx, raw)
}

// attrValue reads a named attribute from obj: map index for string-keyed
// maps, struct field (directly or via its exported spelling) otherwise.
// Returns Missing when the attribute does not exist.
func attrValue(obj any, name string) any {
	if obj == nil {
		return Missing
	}
	if m, ok := obj.(map[string]any); ok {
		if v, ok := m[name]; ok {
			return v
		}
		return Missing
	}
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Missing
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		fv := rv.FieldByName(name)
		if !fv.IsValid() {
			fv = rv.FieldByName(ExportedName(name))
		}
		if !fv.IsValid() || !fv.CanInterface() {
			return Missing
		}
		return fv.Interface()
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Missing
		}
		v := rv.MapIndex(reflect.ValueOf(name))
		if !v.IsValid() {
			return Missing
		}
		return v.Interface()
	}
	return Missing
}

// setAttrValue writes a named attribute of obj. Objects that cannot accept
// the write indicate a schema/object mismatch, not a data problem.
func setAttrValue(obj any, name string, value any) {
	if m, ok := obj.(map[string]any); ok {
		m[name] = value
		return
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		panic(schemaErrorf("cannot set attribute %q on %T: need a struct pointer or map[string]any", name, obj))
	}
	sv := rv.Elem()
	fv := sv.FieldByName(name)
	if !fv.IsValid() {
		fv = sv.FieldByName(ExportedName(name))
	}
	if !fv.IsValid() || !fv.CanSet() {
		panic(schemaErrorf("object %T has no settable field %q", obj, name))
	}
	if value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return
	}
	vv := reflect.ValueOf(value)
	switch {
	case vv.Type().AssignableTo(fv.Type()):
		fv.Set(vv)
	case vv.Type().ConvertibleTo(fv.Type()):
		fv.Set(vv.Convert(fv.Type()))
	default:
		panic(schemaErrorf("cannot assign %T to field %q of %T", value, name, obj))
	}
}

// MethodField obtains its value by invoking an accessor method on the
// application object, and optionally stores loaded values through a mutator
// method. Methods may take a leading context.Context and may return an error
// alongside their value.
type MethodField struct {
	fieldType     Type
	method        string
	setMethod     string
	nameTransform NameTransform
}

// NewMethodField returns a field backed by method invocation. Without
// WithMethod the logical field name (in exported spelling) is used. Storing
// values requires WithSetMethod; SetValue without one is a schema error.
func NewMethodField(fieldType Type, opts ...FieldOption) *MethodField {
	o := applyFieldOptions(opts)
	return &MethodField{fieldType: fieldType, method: o.method, setMethod: o.setMethod, nameTransform: o.nameTransform}
}

func (f *MethodField) methodName(name string) string {
	if f.method != "" {
		return f.method
	}
	if f.nameTransform != nil {
		return f.nameTransform(name)
	}
	return name
}

func (f *MethodField) GetValue(ctx context.Context, name string, obj any) (any, error) {
	return callMethod(ctx, obj, f.methodName(name))
}

func (f *MethodField) SetValue(ctx context.Context, name string, obj any, value any) error {
	if f.setMethod == "" {
		panic(schemaErrorf("method field %q has no set method configured", name))
	}
	_, err := callMethod(ctx, obj, f.setMethod, value)
	return err
}

func (f *MethodField) Load(ctx context.Context, name string, data map[string]any) (any, error) {
	return Missing, nil
}

func (f *MethodField) Dump(ctx context.Context, name string, obj any) (any, error) {
	value, err := f.GetValue(ctx, name, obj)
	if err != nil {
		return nil, err
	}
	return f.fieldType.Dump(ctx, value)
}

// callMethod invokes a method by name via reflection. The method may accept
// a leading context.Context ahead of args and may return (T), (error) or
// (T, error). A missing method is a schema error.
func callMethod(ctx context.Context, obj any, name string, args ...any) (any, error) {
	m := reflect.ValueOf(obj).MethodByName(name)
	if !m.IsValid() {
		m = reflect.ValueOf(obj).MethodByName(ExportedName(name))
	}
	if !m.IsValid() {
		panic(schemaErrorf("object %T does not have method %q", obj, name))
	}
	mt := m.Type()
	in := make([]reflect.Value, 0, len(args)+1)
	want := mt.NumIn()
	if want == len(args)+1 && mt.In(0) == reflect.TypeOf((*context.Context)(nil)).Elem() {
		in = append(in, reflect.ValueOf(ctx))
	} else if want != len(args) {
		panic(schemaErrorf("method %q of %T takes %d arguments, want %d", name, obj, want, len(args)))
	}
	for _, a := range args {
		if a == nil {
			in = append(in, reflect.Zero(mt.In(len(in))))
			continue
		}
		av := reflect.ValueOf(a)
		pt := mt.In(len(in))
		if !av.Type().AssignableTo(pt) && av.Type().ConvertibleTo(pt) {
			av = av.Convert(pt)
		}
		in = append(in, av)
	}
	out := m.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if err, ok := out[0].Interface().(error); ok {
			return nil, err
		}
		return out[0].Interface(), nil
	case 2:
		var err error
		if e, ok := out[1].Interface().(error); ok {
			err = e
		}
		return out[0].Interface(), err
	}
	panic(schemaErrorf("method %q of %T returns %d values, want at most 2", name, obj, len(out)))
}

// GetFunc extracts a field value from an application object.
type GetFunc func(ctx context.Context, name string, obj any) (any, error)

// SetFunc deposits a loaded field value into an application object.
type SetFunc func(ctx context.Context, name string, obj any, value any) error

// FunctionField obtains its value from a caller-supplied getter and
// optionally stores loaded values through a caller-supplied setter.
type FunctionField struct {
	fieldType Type
	get       GetFunc
	set       SetFunc
}

// NewFunctionField returns a field backed by the given getter.
func NewFunctionField(fieldType Type, get GetFunc, opts ...FieldOption) *FunctionField {
	if get == nil {
		panic(schemaErrorf("FunctionField requires a getter"))
	}
	o := applyFieldOptions(opts)
	return &FunctionField{fieldType: fieldType, get: get, set: o.set}
}

func (f *FunctionField) GetValue(ctx context.Context, name string, obj any) (any, error) {
	return f.get(ctx, name, obj)
}

func (f *FunctionField) SetValue(ctx context.Context, name string, obj any, value any) error {
	if f.set == nil {
		return nil
	}
	return f.set(ctx, name, obj, value)
}

func (f *FunctionField) Load(ctx context.Context, name string, data map[string]any) (any, error) {
	return Missing, nil
}

func (f *FunctionField) Dump(ctx context.Context, name string, obj any) (any, error) {
	value, err := f.GetValue(ctx, name, obj)
	if err != nil {
		return nil, err
	}
	return f.fieldType.Dump(ctx, value)
}

// ConstantField ignores the application object on the dump side and always
// emits a fixed value. On load it runs the raw input through its field type
// for verification and contributes nothing to the result.
type ConstantField struct {
	fieldType Type
	value     any
}

// NewConstantField returns a field that always equals the given value.
func NewConstantField(fieldType Type, value any) *ConstantField {
	return &ConstantField{fieldType: fieldType, value: value}
}

func (f *ConstantField) GetValue(ctx context.Context, name string, obj any) (any, error) {
	return f.value, nil
}

func (f *ConstantField) Load(ctx context.Context, name string, data map[string]any) (any, error) {
	raw, ok := data[name]
	if !ok {
		raw = Missing
	}
	if _, err := f.fieldType.Load(ctx, raw); err != nil {
		return nil, err
	}
	return Missing, nil
}

func (f *ConstantField) Dump(ctx context.Context, name string, obj any) (any, error) {
	return f.fieldType.Dump(ctx, f.value)
}
