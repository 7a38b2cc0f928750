package lollipop

import (
	"context"
	"sync"
)

// TypeRegistry resolves types by name so that mutually recursive schemas
// can reference each other before all of them are built.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]Type
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: map[string]Type{}}
}

// Add registers t under name. Registering the same name twice panics.
func (r *TypeRegistry) Add(name string, t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[name]; ok {
		panic(schemaErrorf("type %q is already registered", name))
	}
	r.types[name] = t
}

// Get returns a lazy reference to the type registered under name. The name
// is looked up on first use, so Get may be called before Add.
func (r *TypeRegistry) Get(name string) *TypeRef {
	return &TypeRef{registry: r, name: name}
}

// TypeRef is a proxy for a registry entry. The name is resolved on the
// first successful Load, Dump or Validate and cached; an unregistered name
// panics on every use until it is registered.
type TypeRef struct {
	registry *TypeRegistry
	name     string

	mu    sync.Mutex
	inner Type
}

func (ref *TypeRef) resolve() Type {
	ref.mu.Lock()
	defer ref.mu.Unlock()
	if ref.inner == nil {
		ref.registry.mu.RLock()
		t, ok := ref.registry.types[ref.name]
		ref.registry.mu.RUnlock()
		if !ok {
			panic(schemaErrorf("type %q is not registered", ref.name))
		}
		ref.inner = t
	}
	return ref.inner
}

func (ref *TypeRef) Load(ctx context.Context, data any) (any, error) {
	return ref.resolve().Load(ctx, data)
}

func (ref *TypeRef) Dump(ctx context.Context, value any) (any, error) {
	return ref.resolve().Dump(ctx, value)
}

func (ref *TypeRef) Validate(ctx context.Context, data any) any {
	return ref.resolve().Validate(ctx, data)
}

// LoadInto forwards to the resolved type when it supports in-place loading.
func (ref *TypeRef) LoadInto(ctx context.Context, obj any, data any, inplace bool) (any, error) {
	t := ref.resolve()
	if into, ok := t.(typeIntoLoader); ok {
		return into.LoadInto(ctx, obj, data, inplace)
	}
	return t.Load(ctx, data)
}
