// Package binder creates a module's default parameter set and hands it to the
// settings store.
package binder

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/specialistvlad/modboot/internal/ctxlog"
	"github.com/specialistvlad/modboot/internal/module"
)

var (
	// ErrParameterTypeMissing is returned when a module declares no parameter set.
	ErrParameterTypeMissing = errors.New("module declares no parameter set type")
	// ErrConstructionFailed is returned when the parameter set cannot be built.
	ErrConstructionFailed = errors.New("parameter set construction failed")
	// ErrStoreRejected is returned when the store refuses the binding.
	ErrStoreRejected = errors.New("parameter set rejected by store")
)

// ParameterStore is the part of the settings store the binder depends on.
type ParameterStore interface {
	SetModuleParameters(moduleType reflect.Type, ps any) error
}

// BindError ties a failure to the module type being bound.
type BindError struct {
	ModuleType reflect.Type
	Err        error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.ModuleType, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Binder builds parameter sets for freshly instantiated modules.
type Binder struct {
	store ParameterStore
}

// New creates a Binder that registers parameter sets with store.
func New(store ParameterStore) *Binder {
	return &Binder{store: store}
}

// Bind default-constructs the parameter set declared by m and registers it
// under moduleType. The returned value is always a pointer to a struct. On
// failure the store is left untouched, except for the store's own refusal.
func (b *Binder) Bind(ctx context.Context, moduleType reflect.Type, m module.Module) (any, error) {
	logger := ctxlog.FromContext(ctx).With("module_type", moduleType)

	psType := m.ParameterSetType()
	if psType == nil {
		return nil, &BindError{ModuleType: moduleType, Err: ErrParameterTypeMissing}
	}

	ps, err := newParameterSet(psType)
	if err != nil {
		return nil, &BindError{ModuleType: moduleType, Err: err}
	}

	if err := b.store.SetModuleParameters(moduleType, ps); err != nil {
		return nil, &BindError{ModuleType: moduleType, Err: fmt.Errorf("%w: %w", ErrStoreRejected, err)}
	}

	logger.Debug("Parameter set bound.", "parameter_set", psType)
	return ps, nil
}

// newParameterSet allocates a zero value of t and applies its defaults.
func newParameterSet(t reflect.Type) (ps any, err error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrConstructionFailed, t)
	}

	defer func() {
		if r := recover(); r != nil {
			ps, err = nil, fmt.Errorf("%w: %s: panic: %v", ErrConstructionFailed, t, r)
		}
	}()

	ps = reflect.New(t).Interface()
	if d, ok := ps.(module.Defaulter); ok {
		if err := d.SetDefaults(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConstructionFailed, t, err)
		}
	}
	return ps, nil
}
