// File: pkg/storage/minio/buckets.go
package minio

import (
	"context"
	"encoding/json"
	"fmt"

	miniogo "github.com/minio/minio-go/v7"
)

func (s *MinIOStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}

	if !exists {
		s.logger.Info("Bucket does not exist, creating it", "region", s.region)
		err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{Region: s.region})
		if err != nil {
			switch miniogo.ToErrorResponse(err).Code {
			case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
				s.logger.Debug("Bucket was created concurrently")
			default:
				return fmt.Errorf("failed to create bucket: %w", err)
			}
		} else {
			s.logger.Info("Bucket created")
		}
	}

	if s.publicRead {
		policy, err := publicReadPolicy(s.bucket)
		if err != nil {
			return err
		}
		if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
			return fmt.Errorf("failed to set bucket policy: %w", err)
		}
	}
	return nil
}

type policyStatement struct {
	Effect    string `json:"Effect"`
	Principal string `json:"Principal"`
	Action    string `json:"Action"`
	Resource  string `json:"Resource"`
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// Anonymous GET on every object in the bucket
func publicReadPolicy(bucket string) (string, error) {
	b, err := json.Marshal(bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: "*",
			Action:    "s3:GetObject",
			Resource:  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode bucket policy: %w", err)
	}
	return string(b), nil
}
