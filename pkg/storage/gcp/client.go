// File: pkg/storage/gcp/client.go
package gcp

import (
	"context"
	"fmt"
	"hubstore/internal/config"
	"hubstore/internal/provider/registry"
	"hubstore/pkg/common"
	"hubstore/pkg/storage"
	"log/slog"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Public endpoint objects written with a publicRead ACL are served from
const publicHost = "https://storage.googleapis.com"

func init() {
	registry.RegisterDriver("gcp", registry.DriverRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// Checks if the GCP configuration block is present and the bucket is set
func isConfigured(cfg *config.Config) bool {
	return cfg.GCP != nil && cfg.GCP.Bucket != ""
}

// Initializes the GCS driver from the configuration
func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Driver, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("GCP configuration missing or incomplete")
	}

	clientOpts, err := clientOptions(cfg.GCP)
	if err != nil {
		return nil, err
	}

	opts := Options{
		Bucket:        cfg.GCP.Bucket,
		ProjectID:     cfg.GCP.ProjectID,
		PageSize:      cfg.PageSize,
		CacheControl:  cfg.CacheControl,
		UniformAccess: cfg.GCP.UniformAccess,
	}
	return NewGCPStorage(ctx, opts, logger, clientOpts...)
}

// Options configures a GCPStorage independently of the process configuration
type Options struct {
	Bucket    string
	ProjectID string
	PageSize  int
	// Attached to every written object when non-empty
	CacheControl string
	// Skip per-object ACLs for buckets with uniform bucket-level access
	UniformAccess bool
}

type GCPStorage struct {
	client        *gcpstorage.Client
	clientOpts    []option.ClientOption
	bucket        string
	projectID     string
	pageSize      int
	cacheControl  string
	uniformAccess bool
	logger        *slog.Logger
}

var (
	_ storage.Driver        = (*GCPStorage)(nil)
	_ storage.Provisioner   = (*GCPStorage)(nil)
	_ storage.UsageReporter = (*GCPStorage)(nil)
)

func NewGCPStorage(ctx context.Context, opts Options, logger *slog.Logger, clientOpts ...option.ClientOption) (*GCPStorage, error) {
	client, err := gcpstorage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client: %w", err)
	}

	g := NewGCPStorageFromClient(client, opts, logger)
	g.clientOpts = clientOpts
	return g, nil
}

// Wraps an existing client, e.g. one pointed at an emulator
func NewGCPStorageFromClient(client *gcpstorage.Client, opts Options, logger *slog.Logger) *GCPStorage {
	return &GCPStorage{
		client:        client,
		bucket:        opts.Bucket,
		projectID:     opts.ProjectID,
		pageSize:      storage.ResolvePageSize(opts.PageSize),
		cacheControl:  opts.CacheControl,
		uniformAccess: opts.UniformAccess,
		logger:        logger.With("bucket", opts.Bucket),
	}
}

func (g *GCPStorage) ProviderName() common.Provider {
	return common.GCP
}

func (g *GCPStorage) BucketName() string {
	return g.bucket
}

func (g *GCPStorage) ReadURLPrefix() string {
	return fmt.Sprintf("%s/%s/", publicHost, g.bucket)
}

func (g *GCPStorage) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
