package minio

import (
	"context"
	"encoding/json"
	"errors"
	"hubstore/pkg/storage"
	"hubstore/pkg/storage/storagetest"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStorage(client minioAPI, opts Options) *MinIOStorage {
	if opts.Bucket == "" {
		opts.Bucket = "hub-test"
	}
	if opts.Endpoint == "" {
		opts.Endpoint = "localhost:9000"
	}
	return newMinIOStorage(client, opts, discardLogger())
}

func TestMinIOStorageContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T, pageSize int) storage.Driver {
		s := newTestStorage(newFakeMinIO(false), Options{PageSize: pageSize})
		require.NoError(t, storage.Provision(context.Background(), s))
		return s
	}, storagetest.Options{})
}

func TestReadURLPrefix(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{"plain endpoint", Options{Bucket: "avatars", Endpoint: "localhost:9000"}, "http://localhost:9000/avatars/"},
		{"tls endpoint", Options{Bucket: "avatars", Endpoint: "minio.internal:443", UseSSL: true}, "https://minio.internal:443/avatars/"},
		{"public base", Options{Bucket: "avatars", Endpoint: "localhost:9000", PublicBase: "https://cdn.example.com/files"}, "https://cdn.example.com/files/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMinIOStorage(newFakeMinIO(true), tt.opts, discardLogger())
			assert.Equal(t, tt.expected, s.ReadURLPrefix())
		})
	}
}

func TestPerformWritePassesMetadata(t *testing.T) {
	fake := newFakeMinIO(true)
	s := newTestStorage(fake, Options{CacheControl: "public, max-age=60"})

	_, err := s.PerformWrite(context.Background(), storage.WriteRequest{
		Path:            "img/cat.png",
		StorageTopLevel: "user1",
		Content:         strings.NewReader("png"),
		ContentLength:   -1,
		ContentType:     "image/png",
	})
	require.NoError(t, err)

	obj := fake.objects["user1/img/cat.png"]
	assert.Equal(t, "png", string(obj.body))
	assert.Equal(t, "image/png", obj.contentType)
	assert.Equal(t, "public, max-age=60", obj.cacheControl)
}

func TestPerformWriteBackendError(t *testing.T) {
	fake := newFakeMinIO(true)
	fake.putErr = errors.New("connection reset")
	s := newTestStorage(fake, Options{})

	url, err := s.PerformWrite(context.Background(), storage.WriteRequest{
		Path:            "a.txt",
		StorageTopLevel: "user1",
		Content:         strings.NewReader("x"),
		ContentLength:   1,
	})
	assert.Empty(t, url)
	assert.True(t, storage.IsStorageFailure(err))
	assert.ErrorContains(t, err, "connection reset")
}

func TestListFilesTokenIsLastKey(t *testing.T) {
	s := newTestStorage(newFakeMinIO(true), Options{PageSize: 2})
	for _, name := range []string{"a", "b", "c"} {
		storagetest.Write(t, s, "user1", name, name)
	}

	first, err := s.ListFiles(context.Background(), "user1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, first.Entries)
	assert.Equal(t, "user1/b", first.Page)

	second, err := s.ListFiles(context.Background(), "user1", first.Page)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, second.Entries)
	assert.False(t, second.HasMore())
}

func TestEnsureBucket(t *testing.T) {
	t.Run("creates missing bucket in region", func(t *testing.T) {
		fake := newFakeMinIO(false)
		s := newTestStorage(fake, Options{Region: "eu-west-1"})

		require.NoError(t, s.EnsureBucket(context.Background()))
		assert.True(t, fake.bucketExists)
		assert.Equal(t, "eu-west-1", fake.makeRegion)
		assert.Empty(t, fake.policy)
	})

	t.Run("existing bucket is untouched", func(t *testing.T) {
		fake := newFakeMinIO(true)
		s := newTestStorage(fake, Options{})

		require.NoError(t, s.EnsureBucket(context.Background()))
		assert.Zero(t, fake.makeCalls)
	})

	t.Run("applies public read policy", func(t *testing.T) {
		fake := newFakeMinIO(true)
		s := newTestStorage(fake, Options{Bucket: "avatars", PublicRead: true})

		require.NoError(t, s.EnsureBucket(context.Background()))

		var policy bucketPolicy
		require.NoError(t, json.Unmarshal([]byte(fake.policy), &policy))
		require.Len(t, policy.Statement, 1)
		assert.Equal(t, "arn:aws:s3:::avatars/*", policy.Statement[0].Resource)
		assert.Equal(t, "s3:GetObject", policy.Statement[0].Action)
	})

	t.Run("existence check failure is a provisioning error", func(t *testing.T) {
		fake := newFakeMinIO(false)
		fake.existsErr = errors.New("access denied")
		s := newTestStorage(fake, Options{})

		err := storage.Provision(context.Background(), s)
		require.Error(t, err)
		assert.True(t, storage.IsProvisioningError(err))
		assert.Zero(t, fake.makeCalls)
	})
}

func TestBucketUsage(t *testing.T) {
	s := newTestStorage(newFakeMinIO(true), Options{})
	storagetest.Write(t, s, "user1", "a.txt", "12345")
	storagetest.Write(t, s, "user2", "b.txt", "123")

	usage, err := s.BucketUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), usage)
}
