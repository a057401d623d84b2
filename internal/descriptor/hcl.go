package descriptor

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/modboot/internal/ctxlog"
)

// HCLFile reads `module "<id>" {}` blocks from an HCL file.
type HCLFile struct {
	Path string
}

// NewHCLFile creates a Source for the HCL module list at path.
func NewHCLFile(path string) *HCLFile {
	return &HCLFile{Path: path}
}

// hclRoot has no remain field: anything but module blocks is malformed.
type hclRoot struct {
	Modules []*hclModule `hcl:"module,block"`
}

type hclModule struct {
	ID      string   `hcl:"id,label"`
	Enabled *bool    `hcl:"enabled,optional"`
	Remain  hcl.Body `hcl:",remain"`
}

// ReadAll parses the file and returns the enabled identifiers in file order.
func (f *HCLFile) ReadAll(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(f.Path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse HCL file %s: %w", ErrSourceUnreadable, f.Path, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode HCL file %s: %w", ErrSourceUnreadable, f.Path, diags)
	}

	ids := make([]string, 0, len(root.Modules))
	for _, m := range root.Modules {
		if m.Enabled != nil && !*m.Enabled {
			logger.Debug("Module disabled in module list.", "identifier", m.ID, "path", f.Path)
			continue
		}
		ids = append(ids, m.ID)
	}
	if err := validate(f.Path, ids); err != nil {
		return nil, err
	}
	return ids, nil
}
