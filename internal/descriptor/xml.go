package descriptor

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// XMLFile reads `<module>` elements under a `<modules>` root.
type XMLFile struct {
	Path string
}

// NewXMLFile creates a Source for the XML module list at path.
func NewXMLFile(path string) *XMLFile {
	return &XMLFile{Path: path}
}

type xmlRoot struct {
	XMLName xml.Name `xml:"modules"`
	Modules []string `xml:"module"`
}

// ReadAll parses the file and returns the identifiers in document order.
// Elements other than <module> are ignored.
func (f *XMLFile) ReadAll(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}

	var root xmlRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: failed to parse XML file %s: %w", ErrSourceUnreadable, f.Path, err)
	}

	ids := make([]string, len(root.Modules))
	for i, m := range root.Modules {
		ids[i] = strings.TrimSpace(m)
	}
	if err := validate(f.Path, ids); err != nil {
		return nil, err
	}
	return ids, nil
}
