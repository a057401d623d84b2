package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/modboot/internal/ctxlog"
)

// Encode renders every bound parameter set as a fresh HCL settings document.
func (s *Store) Encode() ([]byte, error) {
	return s.Merge(nil, "")
}

// Merge writes every bound parameter set into the HCL document existing. The
// block of a bound module type is rewritten in place; blocks for other module
// types, comments and anything else in the document are kept as they are.
// Bound types without a block are appended.
func (s *Store) Merge(existing []byte, filename string) (out []byte, err error) {
	f, diags := hclwrite.ParseConfig(existing, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// gohcl panics on values it cannot represent.
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("failed to encode settings: %v", r)
		}
	}()

	root := f.Body()
	for _, t := range s.order {
		labels := []string{TypeName(t)}
		if block := root.FirstMatchingBlock("module", labels); block != nil {
			clearBody(block.Body())
			gohcl.EncodeIntoBody(s.params[t], block.Body())
			continue
		}
		if len(root.Blocks()) > 0 || len(root.Attributes()) > 0 {
			root.AppendNewline()
		}
		block := root.AppendNewBlock("module", labels)
		gohcl.EncodeIntoBody(s.params[t], block.Body())
	}
	return f.Bytes(), nil
}

func clearBody(body *hclwrite.Body) {
	for name := range body.Attributes() {
		body.RemoveAttribute(name)
	}
	for _, nested := range body.Blocks() {
		body.RemoveBlock(nested)
	}
}

// SaveConfiguration writes every bound parameter set to path, creating the
// parent directory if needed. An existing file is merged into, not replaced.
func (s *Store) SaveConfiguration(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not read settings file %s: %w", path, err)
	}

	data, err := s.Merge(existing, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create settings directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("could not write settings file %s: %w", path, err)
	}

	logger.Info("Settings saved.", "path", path, "modules", s.Len(), "merged", len(existing) > 0)
	return nil
}
