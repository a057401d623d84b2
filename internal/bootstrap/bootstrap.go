package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/specialistvlad/modboot/internal/ctxlog"
	"github.com/specialistvlad/modboot/internal/descriptor"
	"github.com/specialistvlad/modboot/internal/module"
	"github.com/specialistvlad/modboot/internal/registry"
)

var (
	// ErrFatal marks a bootstrap that ended in StateFatalAbort.
	ErrFatal = errors.New("bootstrap aborted")
	// ErrAlreadyRun is returned by Run on a Bootstrapper that has already run.
	ErrAlreadyRun = errors.New("bootstrap already run")
)

// Instantiator resolves a module identifier into a module instance.
type Instantiator interface {
	Instantiate(id string) (reflect.Type, module.Module, error)
}

// Binder creates and registers a module's parameter set.
type Binder interface {
	Bind(ctx context.Context, moduleType reflect.Type, m module.Module) (any, error)
}

// SettingsStore applies persisted settings once all modules are bound and
// reports which module types hold a parameter set.
type SettingsStore interface {
	LoadConfiguration(ctx context.Context, path string) error
	ModuleParameters(moduleType reflect.Type) (any, bool)
}

// Options holds the collaborators of a Bootstrapper. All fields except
// SettingsPath are required.
type Options struct {
	Source   descriptor.Source
	Catalog  Instantiator
	Binder   Binder
	Registry *registry.Registry
	Settings SettingsStore
	// SettingsPath is the settings file loaded in StateConfiguringApp. An
	// empty path skips loading.
	SettingsPath string
}

// Bootstrapper runs the module loading sequence once.
type Bootstrapper struct {
	opts Options

	mu      sync.Mutex
	state   State
	current int
	started bool
}

// New creates a Bootstrapper. It panics when a required collaborator is
// missing, since that is a wiring mistake rather than a runtime condition.
func New(opts Options) *Bootstrapper {
	switch {
	case opts.Source == nil:
		panic("bootstrap: Source is required")
	case opts.Catalog == nil:
		panic("bootstrap: Catalog is required")
	case opts.Binder == nil:
		panic("bootstrap: Binder is required")
	case opts.Registry == nil:
		panic("bootstrap: Registry is required")
	case opts.Settings == nil:
		panic("bootstrap: Settings is required")
	}
	return &Bootstrapper{opts: opts, state: StateReadingDescriptors}
}

// State returns the current state of the bootstrap.
func (b *Bootstrapper) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Progress returns the current state and, while loading, the zero-based
// index of the descriptor being processed.
func (b *Bootstrapper) Progress() (State, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.current
}

func (b *Bootstrapper) transition(s State, index int) {
	b.mu.Lock()
	b.state = s
	b.current = index
	b.mu.Unlock()
}

// Run executes the bootstrap. It returns an error wrapping ErrFatal only when
// the module list cannot be read; in that case nothing is inserted into the
// registry. All other failures are collected in the returned Report.
func (b *Bootstrapper) Run(ctx context.Context) (*Report, error) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return nil, ErrAlreadyRun
	}
	b.started = true
	b.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	report := &Report{}

	logger.Info("Loading modules")
	ids, err := b.opts.Source.ReadAll(ctx)
	if err != nil {
		b.transition(StateFatalAbort, 0)
		logger.Error("Could not read module list.", "error", err)
		return report, fmt.Errorf("%w: %w", ErrFatal, err)
	}
	report.Descriptors = ids
	logger.Debug("Module list read.", "count", len(ids))

	loaded := make(map[reflect.Type]string, len(ids))
	for i, id := range ids {
		b.transition(StateLoading, i)
		if moduleType, ok := b.load(ctx, report, id); ok {
			loaded[moduleType] = id
		}
	}
	report.unbound = b.unbound(loaded)

	b.transition(StateConfiguringApp, len(ids))
	b.configure(ctx, report)

	b.transition(StateDone, len(ids))
	logger.Info("Modules loaded.",
		"requested", len(ids),
		"loaded", len(report.Loaded),
		"failed", len(report.Failures),
		"modules", b.opts.Registry.Len(),
	)
	return report, nil
}

// load handles a single descriptor and returns the type of the module it
// registered. The module is inserted as soon as it is constructed, so a bind
// failure leaves it registered without parameters.
func (b *Bootstrapper) load(ctx context.Context, report *Report, id string) (reflect.Type, bool) {
	ctx = ctxlog.With(ctx, "identifier", id)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting module.")

	moduleType, m, err := b.opts.Catalog.Instantiate(id)
	if err != nil {
		logger.Warn("Failed to initialize module.", "error", err)
		report.Failures = append(report.Failures, Failure{Identifier: id, Step: StepInstantiate, Err: err})
		return nil, false
	}

	if replaced := b.opts.Registry.Insert(moduleType, m); replaced {
		logger.Warn("Module loaded more than once, replacing earlier instance.", "module_type", moduleType)
	}
	report.Loaded = append(report.Loaded, id)

	if _, err := b.opts.Binder.Bind(ctx, moduleType, m); err != nil {
		logger.Warn("Failed to bind module parameters, module will use defaults.", "module_type", moduleType, "error", err)
		report.Failures = append(report.Failures, Failure{Identifier: id, Step: StepBind, Err: err})
		return moduleType, true
	}
	logger.Debug("Module started.", "module_type", moduleType)
	return moduleType, true
}

// unbound lists, in registry order, the identifiers of modules loaded by this
// run whose type ended up without a parameter set. loaded maps each type to
// the identifier that last loaded it.
func (b *Bootstrapper) unbound(loaded map[reflect.Type]string) []string {
	var out []string
	for _, t := range b.opts.Registry.Types() {
		id, ok := loaded[t]
		if !ok {
			continue
		}
		if _, bound := b.opts.Settings.ModuleParameters(t); !bound {
			out = append(out, id)
		}
	}
	return out
}

func (b *Bootstrapper) configure(ctx context.Context, report *Report) {
	logger := ctxlog.FromContext(ctx)
	if b.opts.SettingsPath == "" {
		logger.Debug("No settings file configured, keeping default parameters.")
		return
	}

	logger.Info("Loading configuration", "path", b.opts.SettingsPath)
	if err := b.opts.Settings.LoadConfiguration(ctx, b.opts.SettingsPath); err != nil {
		logger.Error("Could not load configuration.", "path", b.opts.SettingsPath, "error", err)
		report.ConfigErr = err
	}
}
