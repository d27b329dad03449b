// File: pkg/storage/aws/client.go
package aws

import (
	"context"
	"fmt"
	"hubstore/internal/config"
	"hubstore/internal/provider/registry"
	"hubstore/pkg/common"
	"hubstore/pkg/storage"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func init() {
	registry.RegisterDriver("aws", registry.DriverRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// Checks if the AWS configuration block is present and the bucket is set
func isConfigured(cfg *config.Config) bool {
	return cfg.AWS != nil && cfg.AWS.Bucket != ""
}

func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Driver, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("AWS configuration missing or incomplete")
	}
	return NewAWSStorage(ctx, Options{
		Bucket:          cfg.AWS.Bucket,
		Region:          cfg.AWS.Region,
		Endpoint:        cfg.AWS.Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		PublicACL:       cfg.AWS.PublicACL,
		ForcePathStyle:  cfg.AWS.ForcePathStyle,
		PageSize:        cfg.PageSize,
		CacheControl:    cfg.CacheControl,
	}, logger)
}

// s3API is the subset of the S3 client the driver relies on
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type Options struct {
	Bucket string
	Region string
	// Custom S3-compatible endpoint; implies path-style addressing
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// Uploads objects with the public-read canned ACL
	PublicACL      bool
	ForcePathStyle bool
	PageSize       int
	CacheControl   string
}

type AWSStorage struct {
	client       s3API
	bucket       string
	region       string
	endpoint     string
	publicACL    bool
	pageSize     int
	cacheControl string
	logger       *slog.Logger
}

var (
	_ storage.Driver      = (*AWSStorage)(nil)
	_ storage.Provisioner = (*AWSStorage)(nil)
)

func NewAWSStorage(ctx context.Context, opts Options, logger *slog.Logger) (*AWSStorage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
		if opts.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return newAWSStorage(client, opts, logger), nil
}

// ListObjectsV2 never returns more keys than this per request
const maxListKeys = 1000

func newAWSStorage(client s3API, opts Options, logger *slog.Logger) *AWSStorage {
	pageSize := storage.ResolvePageSize(opts.PageSize)
	if pageSize > maxListKeys {
		pageSize = maxListKeys
	}
	return &AWSStorage{
		client:       client,
		bucket:       opts.Bucket,
		region:       opts.Region,
		endpoint:     strings.TrimRight(opts.Endpoint, "/"),
		publicACL:    opts.PublicACL,
		pageSize:     pageSize,
		cacheControl: opts.CacheControl,
		logger:       logger.With("bucket", opts.Bucket),
	}
}

func (s *AWSStorage) ProviderName() common.Provider {
	return common.AWS
}

func (s *AWSStorage) BucketName() string {
	return s.bucket
}

// Path-style URL, either on the custom endpoint or on the regional S3 host
func (s *AWSStorage) ReadURLPrefix() string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/", s.endpoint, s.bucket)
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/", s.region, s.bucket)
}

func (s *AWSStorage) Close() error {
	// The SDK client holds no resources that need releasing
	return nil
}
