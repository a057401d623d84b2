package descriptor

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLFile reads a `modules:` sequence from a YAML file.
type YAMLFile struct {
	Path string
}

// NewYAMLFile creates a Source for the YAML module list at path.
func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{Path: path}
}

type yamlRoot struct {
	Modules []string `yaml:"modules"`
}

// ReadAll parses the file and returns the identifiers in file order.
func (f *YAMLFile) ReadAll(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	var root yamlRoot
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML file %s: %w", ErrSourceUnreadable, f.Path, err)
	}
	if err := validate(f.Path, root.Modules); err != nil {
		return nil, err
	}
	return root.Modules, nil
}
