package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/modboot/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot decodes the top level of a settings file. Anything other than
// module blocks fails the decode.
type fileRoot struct {
	Modules []*moduleBlock `hcl:"module,block"`
}

type moduleBlock struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

// LoadConfiguration overlays the values in the HCL file at path onto the
// bound parameter sets. Blocks naming an unbound module type are skipped.
// A block that fails to decode leaves its parameter set untouched; the
// remaining blocks are still applied and all failures are returned together.
// The store is finalized whether or not loading succeeds.
func (s *Store) LoadConfiguration(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Settings loader started.", "path", path)
	defer s.finalize()

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return fmt.Errorf("%w: failed to parse %s: %w", ErrLoadFailed, path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("%w: failed to decode %s: %w", ErrLoadFailed, path, diags)
	}

	byName := s.typesByName()
	evalCtx := newEvalContext()

	var errs []error
	applied := 0
	for _, block := range root.Modules {
		moduleType, ok := byName[block.Type]
		if !ok {
			logger.Warn("Settings file names a module that is not loaded, skipping.", "module_type", block.Type, "path", path)
			continue
		}
		if err := s.apply(moduleType, block.Body, evalCtx); err != nil {
			logger.Warn("Failed to apply module settings.", "module_type", block.Type, "error", err)
			errs = append(errs, fmt.Errorf("module %q: %w", block.Type, err))
			continue
		}
		applied++
	}

	logger.Debug("Settings loader finished.", "path", path, "applied", applied, "failed", len(errs))
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrLoadFailed, errors.Join(errs...))
	}
	return nil
}

// apply decodes body into a copy of the bound parameter set and swaps the
// copy in only when decoding succeeds. The parameter set keeps its identity.
func (s *Store) apply(moduleType reflect.Type, body hcl.Body, evalCtx *hcl.EvalContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := reflect.ValueOf(s.params[moduleType]).Elem()
	scratch := reflect.New(target.Type())
	scratch.Elem().Set(target)

	if diags := gohcl.DecodeBody(body, evalCtx, scratch.Interface()); diags.HasErrors() {
		return diags
	}
	target.Set(scratch.Elem())
	return nil
}

func (s *Store) typesByName() map[string]reflect.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]reflect.Type, len(s.order))
	for _, t := range s.order {
		out[TypeName(t)] = t
	}
	return out
}

func (s *Store) finalize() {
	s.mu.Lock()
	s.finalized = true
	s.mu.Unlock()
}

// newEvalContext exposes the process environment to settings expressions as
// env.NAME.
func newEvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hclsyntax.ValidIdentifier(name) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
