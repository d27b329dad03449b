// File: pkg/storage/aws/objects.go
package aws

import (
	"context"
	"errors"
	"fmt"
	"hubstore/pkg/storage"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func (s *AWSStorage) PerformWrite(ctx context.Context, req storage.WriteRequest) (string, error) {
	if !storage.IsPathValid(req.Path) {
		return "", storage.NewInvalidPathError(req.Path)
	}

	key := req.Key()
	s.logger.Debug("Starting S3 write", "key", key, "contentType", req.ContentType, "contentLength", req.ContentLength)

	body, size, release, err := uploadBody(req.Content, req.ContentLength)
	if err != nil {
		return "", storage.NewStorageFailure("write", s.bucket, key, err)
	}
	defer release()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}
	if s.cacheControl != "" {
		input.CacheControl = aws.String(s.cacheControl)
	}
	if s.publicACL {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("Failed to put S3 object", "key", key, "error", err)
		return "", storage.NewStorageFailure("write", s.bucket, key, err)
	}

	return s.ReadURLPrefix() + key, nil
}

// uploadBody returns a seekable body and its exact size. The SDK seeks the payload to sign
// and checksum it on plain HTTP endpoints, so other streams are spooled to a temp file first.
func uploadBody(content io.Reader, declared int64) (io.ReadSeeker, int64, func(), error) {
	if rs, ok := content.(io.ReadSeeker); ok {
		size, err := remaining(rs)
		if err != nil {
			return nil, 0, nil, err
		}
		if declared >= 0 && size != declared {
			return nil, 0, nil, fmt.Errorf("%w: declared %d bytes, got %d", storage.ErrContentLengthMismatch, declared, size)
		}
		return rs, size, func() {}, nil
	}

	f, err := os.CreateTemp("", "hubstore-s3-*")
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to create upload buffer: %w", err)
	}
	release := func() {
		f.Close()
		os.Remove(f.Name())
	}

	size, err := io.Copy(f, storage.ExpectLength(content, declared))
	if err != nil {
		release()
		return nil, 0, nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		release()
		return nil, 0, nil, err
	}
	return f, size, release, nil
}

// Bytes left between the current offset and the end, leaving the offset unchanged
func remaining(rs io.ReadSeeker) (int64, error) {
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := rs.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return end - cur, nil
}

func (s *AWSStorage) ListFiles(ctx context.Context, prefix string, page string) (storage.ListFilesResult, error) {
	listPrefix := storage.ListPrefix(prefix)
	s.logger.Debug("Starting S3 list", "prefix", listPrefix, "pageSize", s.pageSize, "continued", page != "")

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(listPrefix),
		MaxKeys: aws.Int32(int32(s.pageSize)),
	}
	if page != "" {
		input.ContinuationToken = aws.String(page)
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return storage.ListFilesResult{}, storage.NewStorageFailure("list", s.bucket, listPrefix, err)
	}

	entries := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		entries = append(entries, storage.StripPrefix(prefix, aws.ToString(obj.Key)))
	}

	result := storage.ListFilesResult{Entries: entries}
	if aws.ToBool(out.IsTruncated) {
		result.Page = aws.ToString(out.NextContinuationToken)
	}
	return result, nil
}

// S3 deletes are silent for missing keys, so existence is checked first to report them
func (s *AWSStorage) PerformDelete(ctx context.Context, req storage.DeleteRequest) error {
	if !storage.IsPathValid(req.Path) {
		return storage.NewInvalidPathError(req.Path)
	}

	key := req.Key()
	s.logger.Debug("Starting S3 delete", "key", key)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			err = errors.Join(storage.ErrObjectNotFound, err)
		}
		return storage.NewStorageFailure("delete", s.bucket, key, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return storage.NewStorageFailure("delete", s.bucket, key, err)
	}
	return nil
}
