package module

import (
	"fmt"
	"reflect"
)

// Module is the interface that all loadable modules must implement.
type Module interface {
	// ParameterSetType returns the type of the module's parameter set, or nil
	// when the module does not declare one. The type must be a struct or a
	// pointer to a struct so that it can be default-constructed.
	ParameterSetType() reflect.Type
}

// Named is implemented by modules that want a human readable name in logs and
// introspection output instead of their Go type name.
type Named interface {
	Name() string
}

// Defaulter is implemented by parameter sets that need non-zero defaults
// after construction.
type Defaulter interface {
	SetDefaults() error
}

// TypeOf returns the registry key for a module instance.
func TypeOf(m Module) reflect.Type {
	return reflect.TypeOf(m)
}

// DisplayName returns the name a module reports through Named, falling back
// to its Go type.
func DisplayName(m Module) string {
	if n, ok := m.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", m)
}

// ParamsOf is a convenience for module implementations: it returns the
// pointer type's element when given a pointer, so both
// ParamsOf[Params]() and ParamsOf[*Params]() describe the same struct.
func ParamsOf[T any]() reflect.Type {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
