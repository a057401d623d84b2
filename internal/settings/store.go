package settings

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrStoreRejected is returned when a parameter set cannot be bound.
	ErrStoreRejected = errors.New("settings store rejected parameter set")
	// ErrLoadFailed is returned when persisted settings cannot be applied.
	ErrLoadFailed = errors.New("failed to load settings")
	// ErrNotBound is returned when no parameter set exists for a module type.
	ErrNotBound = errors.New("no parameter set bound for module type")
)

// Store holds the parameter sets of all bound modules. It is safe for
// concurrent use.
type Store struct {
	mu        sync.RWMutex
	params    map[reflect.Type]any
	order     []reflect.Type
	finalized bool
}

// New creates an empty, unfinalized settings store.
func New() *Store {
	return &Store{params: make(map[reflect.Type]any)}
}

// SetModuleParameters binds ps to moduleType, replacing any earlier binding.
// ps must be a non-nil pointer to a struct.
func (s *Store) SetModuleParameters(moduleType reflect.Type, ps any) error {
	if moduleType == nil {
		return fmt.Errorf("%w: nil module type", ErrStoreRejected)
	}
	rv := reflect.ValueOf(ps)
	if ps == nil || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s: parameter set must be a non-nil pointer to a struct, got %T", ErrStoreRejected, TypeName(moduleType), ps)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return fmt.Errorf("%w: %s: store is finalized", ErrStoreRejected, TypeName(moduleType))
	}
	if _, exists := s.params[moduleType]; !exists {
		s.order = append(s.order, moduleType)
	}
	s.params[moduleType] = ps
	return nil
}

// ModuleParameters returns the parameter set bound to moduleType.
func (s *Store) ModuleParameters(moduleType reflect.Type) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ps, ok := s.params[moduleType]
	return ps, ok
}

// Finalized reports whether the store still accepts bindings.
func (s *Store) Finalized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalized
}

// Len returns the number of bound parameter sets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Parameters is the typed accessor modules and callers use to read their own
// parameter set. It returns false when nothing is bound, in which case the
// caller should fall back to defaults.
func Parameters[P any](s *Store, moduleType reflect.Type) (*P, bool) {
	ps, ok := s.ModuleParameters(moduleType)
	if !ok {
		return nil, false
	}
	typed, ok := ps.(*P)
	return typed, ok
}

// TypeName returns the stable name used for a module type in settings files:
// the import path and name of the underlying named type.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
