// File: pkg/storage/minio/objects.go
package minio

import (
	"context"
	"errors"
	"hubstore/pkg/storage"

	miniogo "github.com/minio/minio-go/v7"
)

func (s *MinIOStorage) PerformWrite(ctx context.Context, req storage.WriteRequest) (string, error) {
	if !storage.IsPathValid(req.Path) {
		return "", storage.NewInvalidPathError(req.Path)
	}

	key := req.Key()
	s.logger.Debug("Starting MinIO write", "key", key, "contentType", req.ContentType, "contentLength", req.ContentLength)

	// An unknown length is sent as -1, which makes the client buffer multipart chunks
	size := req.ContentLength
	if size < 0 {
		size = -1
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, storage.ExpectLength(req.Content, req.ContentLength), size, miniogo.PutObjectOptions{
		ContentType:  req.ContentType,
		CacheControl: s.cacheControl,
	})
	if err != nil {
		s.logger.Error("Failed to put MinIO object", "key", key, "error", err)
		return "", storage.NewStorageFailure("write", s.bucket, key, err)
	}

	return s.ReadURLPrefix() + key, nil
}

// ListFiles pages with StartAfter. The token is the last full key of the previous page;
// one extra entry is read to tell whether another page exists.
func (s *MinIOStorage) ListFiles(ctx context.Context, prefix string, page string) (storage.ListFilesResult, error) {
	listPrefix := storage.ListPrefix(prefix)
	s.logger.Debug("Starting MinIO list", "prefix", listPrefix, "pageSize", s.pageSize, "startAfter", page)

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := s.client.ListObjects(listCtx, s.bucket, miniogo.ListObjectsOptions{
		Prefix:     listPrefix,
		Recursive:  true,
		StartAfter: page,
	})

	keys := make([]string, 0, s.pageSize+1)
	for obj := range objects {
		if obj.Err != nil {
			return storage.ListFilesResult{}, storage.NewStorageFailure("list", s.bucket, listPrefix, obj.Err)
		}
		keys = append(keys, obj.Key)
		if len(keys) > s.pageSize {
			break
		}
	}

	var result storage.ListFilesResult
	if len(keys) > s.pageSize {
		keys = keys[:s.pageSize]
		result.Page = keys[len(keys)-1]
	}

	result.Entries = make([]string, 0, len(keys))
	for _, key := range keys {
		result.Entries = append(result.Entries, storage.StripPrefix(prefix, key))
	}
	return result, nil
}

func (s *MinIOStorage) PerformDelete(ctx context.Context, req storage.DeleteRequest) error {
	if !storage.IsPathValid(req.Path) {
		return storage.NewInvalidPathError(req.Path)
	}

	key := req.Key()
	s.logger.Debug("Starting MinIO delete", "key", key)

	if _, err := s.client.StatObject(ctx, s.bucket, key, miniogo.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			err = errors.Join(storage.ErrObjectNotFound, err)
		}
		return storage.NewStorageFailure("delete", s.bucket, key, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return storage.NewStorageFailure("delete", s.bucket, key, err)
	}
	return nil
}

// BucketUsage sums object sizes across the bucket
func (s *MinIOStorage) BucketUsage(ctx context.Context) (int64, error) {
	var total int64
	for obj := range s.client.ListObjects(ctx, s.bucket, miniogo.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return 0, storage.NewStorageFailure("usage", s.bucket, "", obj.Err)
		}
		total += obj.Size
	}
	return total, nil
}

func isNotFound(err error) bool {
	switch miniogo.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}
