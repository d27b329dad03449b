// File: pkg/storage/storage.go
package storage

import (
	"context"
	"hubstore/pkg/common"
)

// DefaultPageSize is the number of entries a listing returns when no page size is configured
const DefaultPageSize = 100

// Driver is the contract every storage backend implements. The hub core only
// ever holds a Driver, never a concrete backend type.
type Driver interface {
	ProviderName() common.Provider

	// Returns the public base URL under which every written object becomes readable.
	// Always ends with a slash.
	ReadURLPrefix() string

	// Lists the objects stored under prefix. Entries are returned relative to the
	// prefix, in backend order, at most one page at a time. An empty page starts
	// a new listing; a non-empty page must be the Page of a previous result for
	// the same prefix.
	ListFiles(ctx context.Context, prefix string, page string) (ListFilesResult, error)

	// Streams the request content to storageTopLevel/path and returns its public URL
	PerformWrite(ctx context.Context, req WriteRequest) (string, error)

	PerformDelete(ctx context.Context, req DeleteRequest) error

	Close() error
}

// Provisioner is implemented by drivers whose backing container may need to be
// created before the driver is usable.
type Provisioner interface {
	// Makes sure the configured container exists, creating it if absent.
	// Calling it against an existing container is a no-op.
	EnsureBucket(ctx context.Context) error

	// Name of the container EnsureBucket operates on, used for diagnostics
	BucketName() string
}

// UsageReporter is implemented by drivers able to report the number of bytes
// held by their backing container.
type UsageReporter interface {
	BucketUsage(ctx context.Context) (int64, error)
}
