package settings

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Snapshot converts the parameter set bound to moduleType into a cty object
// keyed by the fields' hcl attribute names.
func (s *Store) Snapshot(moduleType reflect.Type) (cty.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, ok := s.params[moduleType]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: %s", ErrNotBound, TypeName(moduleType))
	}

	rv := reflect.ValueOf(ps).Elem()
	rt := rv.Type()
	attrs := make(map[string]cty.Value)
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, ok := attributeName(field)
		if !ok {
			continue
		}
		goVal := rv.Field(i).Interface()
		ty, err := gocty.ImpliedType(goVal)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: field %s: %w", TypeName(moduleType), field.Name, err)
		}
		val, err := gocty.ToCtyValue(goVal, ty)
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: field %s: %w", TypeName(moduleType), field.Name, err)
		}
		attrs[name] = val
	}
	return cty.ObjectVal(attrs), nil
}

// SnapshotJSON is Snapshot rendered with cty's JSON encoding.
func (s *Store) SnapshotJSON(moduleType reflect.Type) ([]byte, error) {
	val, err := s.Snapshot(moduleType)
	if err != nil {
		return nil, err
	}
	return ctyjson.Marshal(val, val.Type())
}

// attributeName returns the hcl attribute name of an exported field. Labels,
// blocks and remain bodies are not parameters.
func attributeName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag, ok := field.Tag.Lookup("hcl")
	if !ok {
		return "", false
	}
	name, kind, _ := strings.Cut(tag, ",")
	if name == "" {
		return "", false
	}
	switch kind {
	case "", "attr", "optional":
		return name, true
	default:
		return "", false
	}
}
