// Package socketio provides a module that performs request/response
// exchanges against a Socket.IO server.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/internal/ctxlog"
	"github.com/specialistvlad/modboot/internal/module"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Identifier is the name of this module in module-list files.
const Identifier = "socketio"

// Plugin registers the socketio module with a catalog.
type Plugin struct{}

// Register implements catalog.Plugin.
func (Plugin) Register(c *catalog.Catalog) {
	catalog.RegisterModule(c, Identifier, New)
}

// Params is the socketio module's parameter set.
type Params struct {
	URL                string `hcl:"url,optional"`
	Namespace          string `hcl:"namespace,optional"`
	Timeout            string `hcl:"timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

// SetDefaults implements module.Defaulter.
func (p *Params) SetDefaults() error {
	p.Namespace = "/"
	p.Timeout = "10s"
	return nil
}

// ErrNoURL is returned by Request when the parameter set names no server.
var ErrNoURL = errors.New("socketio: url is not configured")

// Module implements module.Module.
type Module struct{}

// New creates a socketio module.
func New() *Module { return &Module{} }

// Name implements module.Named.
func (m *Module) Name() string { return Identifier }

// ParameterSetType implements module.Module.
func (m *Module) ParameterSetType() reflect.Type { return module.ParamsOf[Params]() }

// Exchange describes one request/response round trip.
type Exchange struct {
	EmitEvent string
	EmitData  map[string]any
	OnEvent   string
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

// Request connects, emits ex.EmitEvent once connected and waits for the
// first ex.OnEvent payload or the configured timeout.
func (m *Module) Request(ctx context.Context, p *Params, ex Exchange) (any, error) {
	if p == nil || p.URL == "" {
		return nil, ErrNoURL
	}
	logger := ctxlog.FromContext(ctx).With("module", Identifier, "url", p.URL, "onEvent", ex.OnEvent, "emitEvent", ex.EmitEvent)
	logger.Debug("Exchange started")
	defer logger.Debug("Exchange finished")

	var isConnected atomic.Bool

	timeout, err := time.ParseDuration(p.Timeout)
	if err != nil {
		logger.Warn("Failed to parse timeout, using default 10s", "timeout", p.Timeout, "error", err)
		timeout = 10 * time.Second
	}

	parsedURL, err := url.Parse(p.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	done := make(chan opResult, 1)
	finish := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if p.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(p.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", p.Namespace, "sid", io.Id())
		if ex.EmitEvent != "" {
			jsonData, _ := json.Marshal(ex.EmitData)
			logger.Debug("Emitting event", "event", ex.EmitEvent, "data", string(jsonData))
			io.Emit(ex.EmitEvent, ex.EmitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		finish(opResult{err: err})
	})

	io.On(types.EventName(ex.OnEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		finish(opResult{value: responseData})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", ex.OnEvent)
		}
		return nil, errors.New("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}
