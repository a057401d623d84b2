package descriptor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrSourceUnreadable is returned when the module list cannot be read or parsed.
var ErrSourceUnreadable = errors.New("module list unreadable")

// Source supplies module identifiers in load order.
type Source interface {
	ReadAll(ctx context.Context) ([]string, error)
}

// extensions lists the module list formats Open understands.
var extensions = []string{".hcl", ".yaml", ".yml", ".xml"}

// Open returns the Source for path: a Dir when path is a directory, otherwise
// the file source matching its extension.
func Open(path string) (Source, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return NewDir(path), nil
	}
	return openFile(path)
}

func openFile(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return NewHCLFile(path), nil
	case ".yaml", ".yml":
		return NewYAMLFile(path), nil
	case ".xml":
		return NewXMLFile(path), nil
	default:
		return nil, fmt.Errorf("%w: %s: unsupported module list format", ErrSourceUnreadable, path)
	}
}

// Static is a Source backed by an in-memory list.
type Static []string

// ReadAll returns a copy of the list.
func (s Static) ReadAll(_ context.Context) ([]string, error) {
	if err := validate("static", s); err != nil {
		return nil, err
	}
	return slices.Clone([]string(s)), nil
}

// validate rejects blank identifiers. origin names the source in the
// error.
func validate(origin string, ids []string) error {
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: %s: entry %d has an empty module identifier", ErrSourceUnreadable, origin, i+1)
		}
	}
	return nil
}
