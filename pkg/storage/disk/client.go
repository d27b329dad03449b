// File: pkg/storage/disk/client.go
package disk

import (
	"context"
	"fmt"
	"hubstore/internal/config"
	"hubstore/internal/provider/registry"
	"hubstore/pkg/common"
	"hubstore/pkg/storage"
	"log/slog"
	"path/filepath"
	"strings"
)

// Sidecar directory under the storage root holding per-object metadata
const metaDirName = ".hubstore-meta"

func init() {
	registry.RegisterDriver("disk", registry.DriverRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

func isConfigured(cfg *config.Config) bool {
	return cfg.Disk != nil && cfg.Disk.StorageRoot != ""
}

func initialize(_ context.Context, cfg *config.Config, logger *slog.Logger) (storage.Driver, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("disk configuration missing or incomplete")
	}
	return NewDiskStorage(Options{
		StorageRoot:  cfg.Disk.StorageRoot,
		ReadURL:      cfg.Disk.ReadURL,
		PageSize:     cfg.PageSize,
		CacheControl: cfg.CacheControl,
	}, logger)
}

type Options struct {
	// Directory objects are written under
	StorageRoot string
	// Base URL a static file server exposes StorageRoot at
	ReadURL      string
	PageSize     int
	CacheControl string
}

// DiskStorage keeps objects as plain files below a root directory, one file per key
type DiskStorage struct {
	root         string
	readURL      string
	pageSize     int
	cacheControl string
	logger       *slog.Logger
}

var (
	_ storage.Driver        = (*DiskStorage)(nil)
	_ storage.Provisioner   = (*DiskStorage)(nil)
	_ storage.UsageReporter = (*DiskStorage)(nil)
)

func NewDiskStorage(opts Options, logger *slog.Logger) (*DiskStorage, error) {
	if opts.StorageRoot == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	root, err := filepath.Abs(opts.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	return &DiskStorage{
		root:         root,
		readURL:      storage.EnsureTrailingSlash(opts.ReadURL),
		pageSize:     storage.ResolvePageSize(opts.PageSize),
		cacheControl: opts.CacheControl,
		logger:       logger.With("root", root),
	}, nil
}

func (d *DiskStorage) ProviderName() common.Provider {
	return common.Disk
}

// BucketName reports the storage root, the disk equivalent of a bucket
func (d *DiskStorage) BucketName() string {
	return d.root
}

func (d *DiskStorage) ReadURLPrefix() string {
	return d.readURL
}

func (d *DiskStorage) Close() error {
	return nil
}

// Resolves a slash-separated key to a file below the root
func (d *DiskStorage) objectPath(key string) (string, error) {
	p := filepath.Join(d.root, filepath.FromSlash(key))
	if !within(d.root, p) || within(filepath.Join(d.root, metaDirName), p) {
		return "", storage.NewInvalidPathError(key)
	}
	return p, nil
}

// Sidecars mirror the object tree, so a key that cannot exist as an object
// cannot collide in the metadata tree either
func (d *DiskStorage) metaPath(key string) string {
	return filepath.Join(d.root, metaDirName, "objects", filepath.FromSlash(key))
}

func (d *DiskStorage) tmpDir() string {
	return filepath.Join(d.root, metaDirName, "tmp")
}

func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
