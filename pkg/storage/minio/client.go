// File: pkg/storage/minio/client.go
package minio

import (
	"context"
	"fmt"
	"hubstore/internal/config"
	"hubstore/internal/provider/registry"
	"hubstore/pkg/common"
	"hubstore/pkg/storage"
	"io"
	"log/slog"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func init() {
	registry.RegisterDriver("minio", registry.DriverRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

func isConfigured(cfg *config.Config) bool {
	return cfg.MinIO != nil && cfg.MinIO.Bucket != "" && cfg.MinIO.Endpoint != ""
}

func initialize(_ context.Context, cfg *config.Config, logger *slog.Logger) (storage.Driver, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("MinIO configuration missing or incomplete")
	}
	return NewMinIOStorage(Options{
		Bucket:       cfg.MinIO.Bucket,
		Endpoint:     cfg.MinIO.Endpoint,
		AccessKey:    cfg.MinIO.AccessKey,
		SecretKey:    cfg.MinIO.SecretKey,
		UseSSL:       cfg.MinIO.UseSSL,
		Region:       cfg.MinIO.Region,
		PublicBase:   cfg.MinIO.PublicBase,
		PublicRead:   cfg.MinIO.PublicRead,
		PageSize:     cfg.PageSize,
		CacheControl: cfg.CacheControl,
	}, logger)
}

// minioAPI is the subset of *minio.Client the driver calls
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts miniogo.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts miniogo.ListObjectsOptions) <-chan miniogo.ObjectInfo
	StatObject(ctx context.Context, bucketName, objectName string, opts miniogo.StatObjectOptions) (miniogo.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts miniogo.RemoveObjectOptions) error
}

type Options struct {
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	// Browser-facing base URL, e.g. a CDN in front of the bucket. Defaults to the endpoint
	PublicBase string
	// Grants anonymous GET on the bucket during provisioning
	PublicRead   bool
	PageSize     int
	CacheControl string
}

type MinIOStorage struct {
	client       minioAPI
	bucket       string
	region       string
	publicBase   string
	publicRead   bool
	pageSize     int
	cacheControl string
	logger       *slog.Logger
}

var (
	_ storage.Driver        = (*MinIOStorage)(nil)
	_ storage.Provisioner   = (*MinIOStorage)(nil)
	_ storage.UsageReporter = (*MinIOStorage)(nil)
)

func NewMinIOStorage(opts Options, logger *slog.Logger) (*MinIOStorage, error) {
	client, err := miniogo.New(opts.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return newMinIOStorage(client, opts, logger), nil
}

func newMinIOStorage(client minioAPI, opts Options, logger *slog.Logger) *MinIOStorage {
	publicBase := opts.PublicBase
	if publicBase == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(opts.Endpoint, "/"), opts.Bucket)
	}

	return &MinIOStorage{
		client:       client,
		bucket:       opts.Bucket,
		region:       opts.Region,
		publicBase:   storage.EnsureTrailingSlash(publicBase),
		publicRead:   opts.PublicRead,
		pageSize:     storage.ResolvePageSize(opts.PageSize),
		cacheControl: opts.CacheControl,
		logger:       logger.With("bucket", opts.Bucket),
	}
}

func (s *MinIOStorage) ProviderName() common.Provider {
	return common.MinIO
}

func (s *MinIOStorage) BucketName() string {
	return s.bucket
}

func (s *MinIOStorage) ReadURLPrefix() string {
	return s.publicBase
}

func (s *MinIOStorage) Close() error {
	return nil
}
