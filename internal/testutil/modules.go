package testutil

import (
	"errors"
	"reflect"
	"sync/atomic"

	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/internal/module"
)

// serial hands out a distinct number to every fake module instance so tests
// can tell which of several loads of the same type won.
var serial atomic.Int64

func nextSerial() int64 { return serial.Add(1) }

// AlphaParams is the parameter set of AlphaModule.
type AlphaParams struct {
	Greeting string `hcl:"greeting,optional"`
	Retries  int    `hcl:"retries,optional"`
}

// SetDefaults implements module.Defaulter.
func (p *AlphaParams) SetDefaults() error {
	p.Greeting = "hello"
	p.Retries = 3
	return nil
}

// AlphaModule is a well-behaved module with defaulted parameters.
type AlphaModule struct{ Serial int64 }

func (m *AlphaModule) ParameterSetType() reflect.Type { return module.ParamsOf[AlphaParams]() }
func (m *AlphaModule) Name() string                   { return "alpha" }

// BetaParams is the parameter set of BetaModule.
type BetaParams struct {
	Enabled bool              `hcl:"enabled,optional"`
	Labels  map[string]string `hcl:"labels,optional"`
}

// BetaModule is a well-behaved module without defaults.
type BetaModule struct{ Serial int64 }

func (m *BetaModule) ParameterSetType() reflect.Type { return reflect.TypeFor[*BetaParams]() }

// NoParamsModule declares no parameter set, so binding it fails.
type NoParamsModule struct{ Serial int64 }

func (m *NoParamsModule) ParameterSetType() reflect.Type { return nil }

// brokenParams fails to apply its defaults.
type brokenParams struct {
	Value string `hcl:"value,optional"`
}

// ErrBrokenDefaults is returned by BrokenParamsModule's parameter set.
var ErrBrokenDefaults = errors.New("defaults exploded")

func (p *brokenParams) SetDefaults() error { return ErrBrokenDefaults }

// BrokenParamsModule declares a parameter set whose defaults fail.
type BrokenParamsModule struct{}

func (m *BrokenParamsModule) ParameterSetType() reflect.Type { return module.ParamsOf[brokenParams]() }

// ScalarParamsModule declares a parameter set that is not a struct.
type ScalarParamsModule struct{}

func (m *ScalarParamsModule) ParameterSetType() reflect.Type { return reflect.TypeFor[int]() }

// NotAModule does not implement module.Module.
type NotAModule struct{}

// ErrFactory is returned by the "failing" factory.
var ErrFactory = errors.New("factory failed")

// Plugin registers the fake modules under short identifiers:
//
//	alpha, beta, noparams, brokenparams, scalarparams  valid modules
//	notamodule                                        ErrNotAModule
//	failing, panicking, nil                           ErrConstructionFailed
type Plugin struct{}

// Register implements catalog.Plugin.
func (Plugin) Register(c *catalog.Catalog) {
	catalog.RegisterModule(c, "alpha", func() *AlphaModule { return &AlphaModule{Serial: nextSerial()} })
	catalog.RegisterModule(c, "beta", func() *BetaModule { return &BetaModule{Serial: nextSerial()} })
	catalog.RegisterModule(c, "noparams", func() *NoParamsModule { return &NoParamsModule{Serial: nextSerial()} })
	catalog.RegisterModule(c, "brokenparams", func() *BrokenParamsModule { return &BrokenParamsModule{} })
	catalog.RegisterModule(c, "scalarparams", func() *ScalarParamsModule { return &ScalarParamsModule{} })
	c.Register("notamodule", func() (any, error) { return &NotAModule{}, nil })
	c.Register("failing", func() (any, error) { return nil, ErrFactory })
	c.Register("panicking", func() (any, error) { panic("constructor blew up") })
	c.Register("nil", func() (any, error) { return (*AlphaModule)(nil), nil })
}

// NewCatalog returns a catalog populated with the fake modules.
func NewCatalog() *catalog.Catalog {
	return catalog.New(Plugin{})
}
