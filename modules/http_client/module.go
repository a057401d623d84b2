// Package http_client provides a module that owns a shared, pooled
// *http.Client configured from its parameter set.
package http_client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/internal/ctxlog"
	"github.com/specialistvlad/modboot/internal/module"
)

// Identifier is the name of this module in module-list files.
const Identifier = "http_client"

// Plugin registers the http_client module with a catalog.
type Plugin struct{}

// Register implements catalog.Plugin.
func (Plugin) Register(c *catalog.Catalog) {
	catalog.RegisterModule(c, Identifier, New)
}

// Params is the http_client module's parameter set. Durations use Go
// duration syntax.
type Params struct {
	Timeout             string `hcl:"timeout,optional"`
	MaxIdleConns        int    `hcl:"max_idle_conns,optional"`
	MaxIdleConnsPerHost int    `hcl:"max_idle_conns_per_host,optional"`
	IdleConnTimeout     string `hcl:"idle_conn_timeout,optional"`
}

// SetDefaults implements module.Defaulter.
func (p *Params) SetDefaults() error {
	p.Timeout = "30s"
	p.MaxIdleConns = 100
	p.MaxIdleConnsPerHost = 10
	p.IdleConnTimeout = "90s"
	return nil
}

// Module implements module.Module. The client is built on first use.
type Module struct {
	mu     sync.Mutex
	client *http.Client
}

// New creates an http_client module.
func New() *Module { return &Module{} }

// Name implements module.Named.
func (m *Module) Name() string { return Identifier }

// ParameterSetType implements module.Module.
func (m *Module) ParameterSetType() reflect.Type { return module.ParamsOf[Params]() }

// Client returns the shared client, creating it from p on the first call.
// A nil p means defaults.
func (m *Module) Client(p *Params) (*http.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}
	if p == nil {
		p = &Params{}
		_ = p.SetDefaults()
	}

	timeout, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
	}
	idle, err := time.ParseDuration(p.IdleConnTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid idle_conn_timeout %q: %w", p.IdleConnTimeout, err)
	}

	m.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        p.MaxIdleConns,
			MaxIdleConnsPerHost: p.MaxIdleConnsPerHost,
			IdleConnTimeout:     idle,
		},
	}
	return m.client, nil
}

// Response is the result of Get.
type Response struct {
	StatusCode int
	Body       string
}

// Get performs a GET request with the shared client.
func (m *Module) Get(ctx context.Context, p *Params, url string) (*Response, error) {
	logger := ctxlog.FromContext(ctx).With("module", Identifier, "url", url)

	client, err := m.Client(p)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logger.Debug("Making HTTP request")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.Debug("Received HTTP response", "status", resp.Status)

	return &Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

// Close releases idle connections held by the shared client.
func (m *Module) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		m.client.CloseIdleConnections()
	}
}
