// Package print provides a module that writes key/value pairs to an output
// stream, either in the order given or sorted by key.
package print

import (
	"cmp"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/internal/module"
)

// Identifier is the name of this module in module-list files.
const Identifier = "print"

// Plugin registers the print module with a catalog.
type Plugin struct{}

// Register implements catalog.Plugin.
func (Plugin) Register(c *catalog.Catalog) {
	catalog.RegisterModule(c, Identifier, New)
}

// Params is the print module's parameter set.
type Params struct {
	Indent   string `hcl:"indent,optional"`
	SortKeys bool   `hcl:"sort_keys,optional"`
	NullText string `hcl:"null_text,optional"`
}

// SetDefaults implements module.Defaulter.
func (p *Params) SetDefaults() error {
	p.Indent = "      "
	p.SortKeys = true
	p.NullText = "(null)"
	return nil
}

// DefaultParams returns a parameter set with defaults applied.
func DefaultParams() *Params {
	p := &Params{}
	_ = p.SetDefaults()
	return p
}

// Module implements module.Module.
type Module struct{}

// New creates a print module.
func New() *Module { return &Module{} }

// Name implements module.Named.
func (m *Module) Name() string { return Identifier }

// ParameterSetType implements module.Module.
func (m *Module) ParameterSetType() reflect.Type { return module.ParamsOf[Params]() }

// Pair is one line of output.
type Pair struct {
	Key   string
	Value string
}

// Pairs converts a map into pairs sorted by key.
func Pairs(values map[string]string) []Pair {
	if values == nil {
		return nil
	}
	out := make([]Pair, 0, len(values))
	for k, v := range values {
		out = append(out, Pair{Key: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Pair) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// Print writes pairs to w, one `key = "value"` line each. Pairs keep their
// order unless p.SortKeys is set, in which case equal keys keep their
// relative order. A nil slice prints p.NullText. A nil p means defaults.
func (m *Module) Print(w io.Writer, p *Params, pairs []Pair) error {
	if p == nil {
		p = DefaultParams()
	}

	if pairs == nil {
		_, err := fmt.Fprintf(w, "%s%s\n", p.Indent, p.NullText)
		return err
	}

	if p.SortKeys {
		pairs = slices.Clone(pairs)
		slices.SortStableFunc(pairs, func(a, b Pair) int { return cmp.Compare(a.Key, b.Key) })
	}

	for _, pair := range pairs {
		if _, err := fmt.Fprintf(w, "%s%s = %q\n", p.Indent, pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}
