// Package env_vars provides a module that exposes process environment
// variables, optionally filtered by prefix.
package env_vars

import (
	"os"
	"reflect"
	"strings"

	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/internal/module"
)

// Identifier is the name of this module in module-list files.
const Identifier = "env_vars"

// Plugin registers the env_vars module with a catalog.
type Plugin struct{}

// Register implements catalog.Plugin.
func (Plugin) Register(c *catalog.Catalog) {
	catalog.RegisterModule(c, Identifier, New)
}

// Params is the env_vars module's parameter set. An empty Prefix selects
// every variable.
type Params struct {
	Prefix      string `hcl:"prefix,optional"`
	StripPrefix bool   `hcl:"strip_prefix,optional"`
}

// Module implements module.Module.
type Module struct {
	environ func() []string
}

// New creates an env_vars module reading the process environment.
func New() *Module { return &Module{environ: os.Environ} }

// Name implements module.Named.
func (m *Module) Name() string { return Identifier }

// ParameterSetType implements module.Module.
func (m *Module) ParameterSetType() reflect.Type { return module.ParamsOf[Params]() }

// Collect returns the selected environment variables. A nil p selects all.
func (m *Module) Collect(p *Params) map[string]string {
	if p == nil {
		p = &Params{}
	}

	envMap := make(map[string]string)
	for _, e := range m.environ() {
		name, value, ok := strings.Cut(e, "=")
		if !ok || !strings.HasPrefix(name, p.Prefix) {
			continue
		}
		if p.StripPrefix {
			name = strings.TrimPrefix(name, p.Prefix)
			if name == "" {
				continue
			}
		}
		envMap[name] = value
	}
	return envMap
}
