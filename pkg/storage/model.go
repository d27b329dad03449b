// File: pkg/storage/model.go
package storage

import (
	"fmt"
	"io"
	"strings"
)

// Describes a single streamed upload into a tenant's namespace
type WriteRequest struct {
	// Path relative to StorageTopLevel, e.g. "photos/cat.jpg"
	Path string
	// Tenant namespace prefix
	StorageTopLevel string
	Content         io.Reader
	// Declared byte count of Content. A negative value means the length is unknown
	ContentLength int64
	// Passed through to the backend verbatim, never sniffed
	ContentType string
}

// Key returns the fully-qualified object key for the request
func (r WriteRequest) Key() string {
	return ObjectKey(r.StorageTopLevel, r.Path)
}

type DeleteRequest struct {
	Path            string
	StorageTopLevel string
}

func (r DeleteRequest) Key() string {
	return ObjectKey(r.StorageTopLevel, r.Path)
}

// A single page of a prefix listing
type ListFilesResult struct {
	// Filenames relative to the listed prefix, in the order the backend returned them
	Entries []string
	// Continuation token for the next call. Empty once the listing is exhausted
	Page string
}

func (r ListFilesResult) HasMore() bool {
	return r.Page != ""
}

// IsPathValid rejects any path containing a parent-directory traversal.
// Any occurrence of ".." fails, including names such as "a..b".
func IsPathValid(path string) bool {
	return !strings.Contains(path, "..")
}

// ObjectKey qualifies path with the tenant namespace prefix
func ObjectKey(storageTopLevel, path string) string {
	return storageTopLevel + "/" + path
}

// ListPrefix returns the key prefix a listing of prefix queries the backend with.
// Listing "user1" must not return keys of "user10", so a separator is appended.
func ListPrefix(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}

// StripPrefix removes the listed prefix and its trailing separator from a key
func StripPrefix(prefix, key string) string {
	return strings.TrimPrefix(key, ListPrefix(prefix))
}

// EnsureTrailingSlash normalizes a URL prefix so object keys can be appended directly
func EnsureTrailingSlash(prefix string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}

// ResolvePageSize applies the default to unset or invalid page sizes
func ResolvePageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return pageSize
}

func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "N/A"
	}
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	sizes := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	if exp >= len(sizes) {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), sizes[exp])
}
