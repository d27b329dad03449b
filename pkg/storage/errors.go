// File: pkg/storage/errors.go
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath matches every InvalidPathError
	ErrInvalidPath = errors.New("invalid path")

	// ErrObjectNotFound is wrapped by a StorageFailure when the backend reports the object is missing
	ErrObjectNotFound = errors.New("object not found")

	// ErrContentLengthMismatch is wrapped by a StorageFailure when the streamed byte count
	// differs from the declared content length
	ErrContentLengthMismatch = errors.New("content length mismatch")
)

// InvalidPathError is returned before any backend call when a path fails IsPathValid
type InvalidPathError struct {
	Path string
}

func NewInvalidPathError(path string) *InvalidPathError {
	return &InvalidPathError{Path: path}
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: path must not contain '..'", e.Path)
}

func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// StorageFailure wraps any backend error raised while listing, writing or deleting.
// Only the operation, bucket and key are recorded alongside the backend error.
type StorageFailure struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func NewStorageFailure(op, bucket, key string, err error) *StorageFailure {
	return &StorageFailure{Op: op, Bucket: bucket, Key: key, Err: err}
}

func (e *StorageFailure) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s failed for bucket %q: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("storage %s failed for %q in bucket %q: %v", e.Op, e.Key, e.Bucket, e.Err)
}

func (e *StorageFailure) Unwrap() error {
	return e.Err
}

// ProvisioningError reports that the backing container could not be confirmed or created.
// A process holding a driver in this state has no valid mode of operation.
type ProvisioningError struct {
	Bucket string
	Err    error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("failed to provision bucket %q: %v", e.Bucket, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

func IsInvalidPath(err error) bool {
	return errors.Is(err, ErrInvalidPath)
}

func IsStorageFailure(err error) bool {
	var failure *StorageFailure
	return errors.As(err, &failure)
}

func IsProvisioningError(err error) bool {
	var provErr *ProvisioningError
	return errors.As(err, &provErr)
}
