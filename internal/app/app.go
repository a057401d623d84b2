package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/modboot/internal/binder"
	"github.com/specialistvlad/modboot/internal/bootstrap"
	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/internal/ctxlog"
	"github.com/specialistvlad/modboot/internal/descriptor"
	"github.com/specialistvlad/modboot/internal/module"
	"github.com/specialistvlad/modboot/internal/registry"
	"github.com/specialistvlad/modboot/internal/settings"
	"github.com/specialistvlad/modboot/modules/print"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	catalog    *catalog.Catalog
	registry   *registry.Registry
	settings   *settings.Store
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger, empty registry and settings store. Modules are not
// loaded until Bootstrap or Run is called. With no plugins the built-in
// modules are available.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, plugins ...catalog.Plugin) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	cat := NewCatalog(plugins...)
	logger.Debug("Module catalog ready.", "identifiers", cat.Identifiers())

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		catalog:  cat,
		registry: registry.New(),
		settings: settings.New(),
	}
}

// Registry returns the application's module registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Settings returns the application's settings store.
func (a *App) Settings() *settings.Store {
	return a.settings
}

// Catalog returns the modules this application can load.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Bootstrap loads the modules named in the configured module list. The
// returned error wraps bootstrap.ErrFatal when the list cannot be read.
func (a *App) Bootstrap() (*bootstrap.Report, error) {
	src, err := descriptor.Open(a.config.ModulesFile)
	if err != nil {
		a.logger.Error("Could not open module list.", "path", a.config.ModulesFile, "error", err)
		return nil, fmt.Errorf("%w: %w", bootstrap.ErrFatal, err)
	}

	boot := bootstrap.New(bootstrap.Options{
		Source:       src,
		Catalog:      a.catalog,
		Binder:       binder.New(a.settings),
		Registry:     a.registry,
		Settings:     a.settings,
		SettingsPath: a.config.SettingsFile,
	})
	return boot.Run(a.ctx)
}

// Run bootstraps the modules, optionally persists the resulting settings and,
// when a healthcheck port is configured, serves the health endpoints until
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.")

	report, err := a.Bootstrap()
	if err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		a.logger.Warn("Some modules did not load cleanly.", "failures", len(report.Failures), "unbound", report.Unbound())
	}

	if err := a.printSummary(); err != nil {
		a.logger.Warn("Could not print module summary.", "error", err)
	}

	if a.config.SaveSettings {
		a.saveSettings(report)
	}

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(); err != nil {
			return err
		}
		<-ctx.Done()
		if err := a.closeHealthcheckServer(); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// saveSettings merges the effective parameters into the settings file. A file
// that exists but did not load cleanly is left alone so that none of its
// values are replaced by defaults.
func (a *App) saveSettings(report *bootstrap.Report) {
	path := a.config.SettingsFile
	if report.ConfigErr != nil && !errors.Is(report.ConfigErr, fs.ErrNotExist) {
		a.logger.Warn("Settings file did not load cleanly, not saving.", "path", path, "error", report.ConfigErr)
		return
	}
	if err := a.settings.SaveConfiguration(a.ctx, path); err != nil {
		a.logger.Error("Could not save configuration.", "path", path, "error", err)
	}
}

// printSummary lists the loaded modules through the print module, if it is
// one of them.
func (a *App) printSummary() error {
	p, ok := registry.Lookup[*print.Module](a.registry)
	if !ok {
		return nil
	}
	params, _ := settings.Parameters[print.Params](a.settings, module.TypeOf(p))

	modules := a.registry.All()
	pairs := make([]print.Pair, 0, len(modules))
	for _, m := range modules {
		pairs = append(pairs, print.Pair{Key: module.DisplayName(m), Value: settings.TypeName(module.TypeOf(m))})
	}
	return p.Print(a.outW, params, pairs)
}
