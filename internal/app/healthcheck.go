package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/specialistvlad/modboot/internal/module"
	"github.com/specialistvlad/modboot/internal/settings"
)

// moduleStatus is one entry of the /modules response.
type moduleStatus struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Bound      bool            `json:"bound"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// healthHandler answers liveness checks.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// modulesHandler lists the loaded modules and their current parameters.
func (a *App) modulesHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Modules endpoint hit.", "remote_addr", r.RemoteAddr)

	statuses := make([]moduleStatus, 0, a.registry.Len())
	for _, m := range a.registry.All() {
		t := module.TypeOf(m)
		status := moduleStatus{Name: module.DisplayName(m), Type: settings.TypeName(t)}
		if params, err := a.settings.SnapshotJSON(t); err == nil {
			status.Bound = true
			status.Parameters = params
		} else if !errors.Is(err, settings.ErrNotBound) {
			a.logger.Warn("Could not render module parameters.", "module_type", status.Type, "error", err)
			status.Bound = true
		}
		statuses = append(statuses, status)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		a.logger.Error("Failed to write modules response.", "error", err)
	}
}

func (a *App) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /modules", a.modulesHandler)
	return mux
}

// startHealthcheckServer binds the configured port and serves in the
// background.
func (a *App) startHealthcheckServer() error {
	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("health check server: %w", err)
	}

	a.httpServer = &http.Server{
		Handler:           a.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

func (a *App) closeHealthcheckServer() error {
	if a.httpServer == nil {
		a.logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down health check server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	return nil
}
