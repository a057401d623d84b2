package descriptor

import (
	"context"
	"fmt"

	"github.com/specialistvlad/modboot/internal/ctxlog"
	"github.com/specialistvlad/modboot/internal/fsutil"
)

// Dir reads every module list below a directory, in lexical path order,
// and concatenates their identifiers.
type Dir struct {
	Path string
}

// NewDir returns a Dir source rooted at path.
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

// ReadAll implements Source. An unreadable or empty directory, or any
// unreadable file below it, fails the whole read.
func (d *Dir) ReadAll(ctx context.Context) ([]string, error) {
	files, err := fsutil.FindFilesByExtension(d.Path, extensions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s: no module lists found", ErrSourceUnreadable, d.Path)
	}

	logger := ctxlog.FromContext(ctx)
	var ids []string
	for _, file := range files {
		src, err := openFile(file)
		if err != nil {
			return nil, err
		}
		part, err := src.ReadAll(ctx)
		if err != nil {
			return nil, err
		}
		logger.Debug("Read module list.", "path", file, "count", len(part))
		ids = append(ids, part...)
	}
	return ids, nil
}
