// File: pkg/storage/storagetest/suite.go

// Package storagetest holds the behaviour every storage.Driver must share,
// written once and run against each backend's test double.
package storagetest

import (
	"context"
	"fmt"
	"hubstore/pkg/storage"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewDriver builds a fresh, empty, provisioned driver listing pageSize entries per call
type NewDriver func(t *testing.T, pageSize int) storage.Driver

type Options struct {
	// Set for test doubles that cannot serve more than one listing page
	SkipPagination bool
	// Set for backends that do not report deletes of missing objects
	SkipDeleteMissing bool
}

// Run executes the driver contract against drivers built by newDriver
func Run(t *testing.T, newDriver NewDriver, opts Options) {
	t.Run("InvalidPathIsRejectedBeforeWriting", func(t *testing.T) {
		testInvalidPath(t, newDriver(t, storage.DefaultPageSize))
	})
	t.Run("WriteReturnsPublicURL", func(t *testing.T) {
		testWriteURL(t, newDriver(t, storage.DefaultPageSize))
	})
	t.Run("ListStripsPrefix", func(t *testing.T) {
		testListStripsPrefix(t, newDriver(t, storage.DefaultPageSize))
	})
	t.Run("ListIsolatesTenants", func(t *testing.T) {
		testTenantIsolation(t, newDriver(t, storage.DefaultPageSize))
	})
	t.Run("ListEmptyPrefix", func(t *testing.T) {
		d := newDriver(t, storage.DefaultPageSize)
		result, err := d.ListFiles(context.Background(), "nobody", "")
		require.NoError(t, err)
		assert.Empty(t, result.Entries)
		assert.False(t, result.HasMore())
	})
	if !opts.SkipPagination {
		t.Run("PaginationExhaustion", func(t *testing.T) {
			testPagination(t, newDriver(t, 3))
		})
	}
	t.Run("ProvisioningIsIdempotent", func(t *testing.T) {
		testProvisioning(t, newDriver(t, storage.DefaultPageSize))
	})
	t.Run("ContentLengthMismatchFails", func(t *testing.T) {
		testLengthMismatch(t, newDriver(t, storage.DefaultPageSize))
	})
	t.Run("DeleteRemovesObject", func(t *testing.T) {
		testDelete(t, newDriver(t, storage.DefaultPageSize), opts)
	})
}

// Write stores content at top/path and fails the test on error
func Write(t *testing.T, d storage.Driver, top, path, content string) string {
	t.Helper()
	url, err := d.PerformWrite(context.Background(), storage.WriteRequest{
		Path:            path,
		StorageTopLevel: top,
		Content:         strings.NewReader(content),
		ContentLength:   int64(len(content)),
		ContentType:     "text/plain",
	})
	require.NoError(t, err, "write %s/%s", top, path)
	return url
}

// ListAll follows continuation tokens until the listing is exhausted
func ListAll(t *testing.T, d storage.Driver, prefix string) []string {
	t.Helper()
	var all []string
	page := ""
	for i := 0; ; i++ {
		require.Less(t, i, 1000, "listing did not terminate")
		result, err := d.ListFiles(context.Background(), prefix, page)
		require.NoError(t, err)
		all = append(all, result.Entries...)
		if !result.HasMore() {
			return all
		}
		require.NotEqual(t, page, result.Page, "continuation token did not advance")
		page = result.Page
	}
}

func testInvalidPath(t *testing.T, d storage.Driver) {
	for _, path := range []string{"../escape.txt", "a/../../b", "..", "a..b"} {
		_, err := d.PerformWrite(context.Background(), storage.WriteRequest{
			Path:            path,
			StorageTopLevel: "tenant",
			Content:         strings.NewReader("x"),
			ContentLength:   1,
			ContentType:     "text/plain",
		})
		require.Error(t, err, path)
		assert.ErrorIs(t, err, storage.ErrInvalidPath, path)
		assert.False(t, storage.IsStorageFailure(err), path)
	}

	assert.Empty(t, ListAll(t, d, "tenant"))
	assert.Empty(t, ListAll(t, d, ""))
}

func testWriteURL(t *testing.T, d storage.Driver) {
	prefix := d.ReadURLPrefix()
	require.True(t, strings.HasSuffix(prefix, "/"), "read URL prefix %q must end with a slash", prefix)
	assert.Equal(t, prefix, d.ReadURLPrefix())

	url := Write(t, d, "user1", "a/b.txt", "hello")
	assert.Equal(t, prefix+"user1/a/b.txt", url)
}

func testListStripsPrefix(t *testing.T, d storage.Driver) {
	Write(t, d, "user1", "a/b.txt", "1")
	Write(t, d, "user1", "c.txt", "2")

	entries := ListAll(t, d, "user1")
	assert.ElementsMatch(t, []string{"a/b.txt", "c.txt"}, entries)
}

func testTenantIsolation(t *testing.T, d storage.Driver) {
	Write(t, d, "user1", "mine.txt", "1")
	Write(t, d, "user10", "theirs.txt", "2")

	assert.Equal(t, []string{"mine.txt"}, ListAll(t, d, "user1"))
	assert.Equal(t, []string{"theirs.txt"}, ListAll(t, d, "user10"))
}

func testPagination(t *testing.T, d storage.Driver) {
	const n = 8
	expected := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("file-%02d.txt", i)
		expected = append(expected, name)
		Write(t, d, "paged", name, name)
	}
	Write(t, d, "other", "noise.txt", "x")

	first, err := d.ListFiles(context.Background(), "paged", "")
	require.NoError(t, err)
	assert.Len(t, first.Entries, 3)
	assert.True(t, first.HasMore())

	all := ListAll(t, d, "paged")
	sort.Strings(expected)
	assert.Equal(t, expected, all, "pages must cover every entry once, in backend order")
}

func testProvisioning(t *testing.T, d storage.Driver) {
	Write(t, d, "user1", "kept.txt", "x")

	require.NoError(t, storage.Provision(context.Background(), d))
	require.NoError(t, storage.Provision(context.Background(), d))

	assert.Equal(t, []string{"kept.txt"}, ListAll(t, d, "user1"))
}

func testLengthMismatch(t *testing.T, d storage.Driver) {
	url, err := d.PerformWrite(context.Background(), storage.WriteRequest{
		Path:            "short.txt",
		StorageTopLevel: "user1",
		Content:         strings.NewReader("abc"),
		ContentLength:   10,
		ContentType:     "text/plain",
	})
	require.Error(t, err)
	assert.Empty(t, url)
	assert.True(t, storage.IsStorageFailure(err), "got %T: %v", err, err)
	assert.NotContains(t, ListAll(t, d, "user1"), "short.txt")
}

func testDelete(t *testing.T, d storage.Driver, opts Options) {
	Write(t, d, "user1", "gone.txt", "x")
	Write(t, d, "user1", "stays.txt", "y")

	require.NoError(t, d.PerformDelete(context.Background(), storage.DeleteRequest{Path: "gone.txt", StorageTopLevel: "user1"}))
	assert.Equal(t, []string{"stays.txt"}, ListAll(t, d, "user1"))

	err := d.PerformDelete(context.Background(), storage.DeleteRequest{Path: "../stays.txt", StorageTopLevel: "user1"})
	assert.ErrorIs(t, err, storage.ErrInvalidPath)

	if !opts.SkipDeleteMissing {
		err = d.PerformDelete(context.Background(), storage.DeleteRequest{Path: "never.txt", StorageTopLevel: "user1"})
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	}
}
