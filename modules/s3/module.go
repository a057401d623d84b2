// Package s3 provides a module that uploads local files to pre-signed S3
// URLs.
package s3

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/internal/ctxlog"
	"github.com/specialistvlad/modboot/internal/module"
)

// Identifier is the name of this module in module-list files.
const Identifier = "s3"

// ErrUploadRejected is returned when the upload endpoint answers with a
// status other than 200 OK.
var ErrUploadRejected = errors.New("s3 upload rejected")

// Plugin registers the s3 module with a catalog.
type Plugin struct{}

// Register implements catalog.Plugin.
func (Plugin) Register(c *catalog.Catalog) {
	catalog.RegisterModule(c, Identifier, New)
}

// Params is the s3 module's parameter set.
type Params struct {
	Timeout string `hcl:"timeout,optional"`
	// DefaultContentType is sent when the file extension has no known
	// MIME type.
	DefaultContentType string `hcl:"default_content_type,optional"`
}

// SetDefaults implements module.Defaulter.
func (p *Params) SetDefaults() error {
	p.Timeout = "5m"
	p.DefaultContentType = "application/octet-stream"
	return nil
}

// Module implements module.Module.
type Module struct{}

// New creates an s3 module.
func New() *Module { return &Module{} }

// Name implements module.Named.
func (m *Module) Name() string { return Identifier }

// ParameterSetType implements module.Module.
func (m *Module) ParameterSetType() reflect.Type { return module.ParamsOf[Params]() }

// UploadResult describes a completed upload.
type UploadResult struct {
	Status      string
	Size        int64
	ContentType string
}

// Upload PUTs the file at sourcePath to uploadURL. A nil client gets a fresh
// one with the timeout from p; a nil p means defaults.
func (m *Module) Upload(ctx context.Context, client *http.Client, p *Params, sourcePath, uploadURL string) (*UploadResult, error) {
	if p == nil {
		p = &Params{}
		_ = p.SetDefaults()
	}
	if client == nil {
		timeout, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := ctxlog.FromContext(ctx).With("module", Identifier, "action", "upload")

	file, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", sourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats for '%s': %w", sourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
	if contentType == "" {
		contentType = p.DefaultContentType
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to S3", "source", sourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUploadRejected, resp.Status)
	}
	logger.Info("Successfully uploaded file", "status", resp.Status)

	return &UploadResult{Status: resp.Status, Size: stat.Size(), ContentType: contentType}, nil
}
