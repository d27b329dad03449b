// File: pkg/storage/aws/buckets.go
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// us-east-1 is the one region that rejects an explicit location constraint
const defaultRegion = "us-east-1"

// EnsureBucket creates the configured bucket when HeadBucket reports it missing
func (s *AWSStorage) EnsureBucket(ctx context.Context) error {
	s.logger.Debug("Checking S3 bucket existence")

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		s.logger.Debug("Bucket already exists")
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}

	s.logger.Info("Bucket does not exist, creating it", "region", s.region)

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if s.region != "" && s.region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			s.logger.Debug("Bucket was created concurrently")
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Bucket created")
	return nil
}

// Recognizes missing buckets and keys, including the bare error codes S3-compatible servers return
func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket", "NoSuchKey":
			return true
		}
	}
	return false
}
