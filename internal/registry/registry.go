package registry

import (
	"reflect"
	"slices"
	"sync"

	"github.com/specialistvlad/modboot/internal/module"
)

// Registry holds the loaded module instances for a single application.
type Registry struct {
	mu      sync.RWMutex
	modules map[reflect.Type]module.Module
	order   []reflect.Type
}

// New creates and initializes a new, empty Registry instance.
func New() *Registry {
	return &Registry{
		modules: make(map[reflect.Type]module.Module),
	}
}

// Insert stores m under moduleType, replacing any previous instance. It
// reports whether an earlier instance was replaced. A replaced type keeps the
// position it was first inserted at.
func (r *Registry) Insert(moduleType reflect.Type, m module.Module) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.modules[moduleType]
	if !replaced {
		r.order = append(r.order, moduleType)
	}
	r.modules[moduleType] = m
	return replaced
}

// Get returns the instance loaded for moduleType.
func (r *Registry) Get(moduleType reflect.Type) (module.Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[moduleType]
	return m, ok
}

// All returns a point-in-time snapshot of every loaded instance. The returned
// slice is owned by the caller; later inserts are not reflected in it.
func (r *Registry) All() []module.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]module.Module, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.modules[t])
	}
	return out
}

// Types returns the keys of the registry in first-insertion order.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of loaded module types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Lookup is the typed form of Get: Lookup[*print.Module](reg) returns the
// loaded print module, if any.
func Lookup[T module.Module](r *Registry) (T, bool) {
	var zero T
	m, ok := r.Get(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	typed, ok := m.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
