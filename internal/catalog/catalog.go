package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/specialistvlad/modboot/internal/module"
)

var (
	// ErrUnknownType is returned when no factory is registered for an identifier.
	ErrUnknownType = errors.New("unknown module type")
	// ErrNotAModule is returned when a factory builds a value that does not
	// implement module.Module.
	ErrNotAModule = errors.New("type does not implement the module contract")
	// ErrConstructionFailed is returned when a factory fails, panics or
	// returns nothing.
	ErrConstructionFailed = errors.New("module construction failed")
)

// Factory builds a default instance of a module. It returns any so that the
// catalog, not the compiler, is the one enforcing the module contract at load
// time.
type Factory func() (any, error)

// Plugin is implemented by every module package that can be listed in a
// module-list file.
type Plugin interface {
	Register(c *Catalog)
}

// InstantiationError ties a failure to the identifier that caused it.
type InstantiationError struct {
	Identifier string
	Err        error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Identifier, e.Err)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// Catalog holds the registered module factories.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New creates a catalog and lets each plugin register its factories.
func New(plugins ...Plugin) *Catalog {
	c := &Catalog{factories: make(map[string]Factory)}
	for _, p := range plugins {
		p.Register(c)
	}
	return c
}

// Register associates an identifier with a factory. Registering the same
// identifier twice is a programming error and panics.
func (c *Catalog) Register(id string, f Factory) {
	if id == "" {
		panic("catalog: module identifier must not be empty")
	}
	if f == nil {
		panic(fmt.Sprintf("catalog: nil factory for module '%s'", id))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.factories[id]; exists {
		panic(fmt.Sprintf("catalog: module '%s' already registered", id))
	}
	slog.Debug("Registering module factory.", "identifier", id)
	c.factories[id] = f
}

// RegisterModule is a typed helper for the common case of a module with a
// zero-argument constructor.
func RegisterModule[M module.Module](c *Catalog, id string, newFn func() M) {
	c.Register(id, func() (any, error) { return newFn(), nil })
}

// Identifiers returns all registered identifiers in sorted order.
func (c *Catalog) Identifiers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.factories))
	for id := range c.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Instantiate resolves id and builds a default instance of the module. The
// returned type is the key the module is registered under.
func (c *Catalog) Instantiate(id string) (reflect.Type, module.Module, error) {
	c.mu.RLock()
	factory, ok := c.factories[id]
	c.mu.RUnlock()
	if !ok {
		return nil, nil, &InstantiationError{Identifier: id, Err: ErrUnknownType}
	}

	v, err := construct(factory)
	if err != nil {
		return nil, nil, &InstantiationError{Identifier: id, Err: err}
	}

	m, ok := v.(module.Module)
	if !ok {
		return nil, nil, &InstantiationError{
			Identifier: id,
			Err:        fmt.Errorf("%w: %T", ErrNotAModule, v),
		}
	}
	return module.TypeOf(m), m, nil
}

// construct runs a factory and converts errors, panics and nil results into
// ErrConstructionFailed.
func construct(factory Factory) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("%w: panic: %v", ErrConstructionFailed, r)
		}
	}()

	v, err = factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstructionFailed, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: factory returned nil", ErrConstructionFailed)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, fmt.Errorf("%w: factory returned nil %T", ErrConstructionFailed, v)
	}
	return v, nil
}
