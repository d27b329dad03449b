// File: internal/config/config.go
package config

import (
	"fmt"
	"hubstore/pkg/storage"
	"strings"
)

const (
	ConfigFileName = "config.yaml"
	ConfigDirName  = "hubstore"
	EnvPrefix      = "HUBSTORE"

	DefaultAWSRegion = "us-east-1"
)

type GCPConfig struct {
	Bucket    string `mapstructure:"bucket" validate:"required"`
	ProjectID string `mapstructure:"project_id"`
	// Service account principal, used together with PrivateKey for inline credentials
	ClientEmail string `mapstructure:"client_email" validate:"required_with=PrivateKey,omitempty,email"`
	PrivateKey  string `mapstructure:"private_key" validate:"required_with=ClientEmail"`
	KeyFile     string `mapstructure:"key_file" validate:"omitempty,excluded_with=PrivateKey"`
	// Buckets with uniform bucket-level access reject per-object ACLs
	UniformAccess bool `mapstructure:"uniform_access"`
}

type AWSConfig struct {
	Bucket          string `mapstructure:"bucket" validate:"required"`
	Region          string `mapstructure:"region" validate:"required"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
	PublicACL       bool   `mapstructure:"public_acl"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
}

type MinIOConfig struct {
	Bucket     string `mapstructure:"bucket" validate:"required"`
	Endpoint   string `mapstructure:"endpoint" validate:"required,hostname_port"`
	AccessKey  string `mapstructure:"access_key" validate:"required"`
	SecretKey  string `mapstructure:"secret_key" validate:"required"`
	UseSSL     bool   `mapstructure:"use_ssl"`
	Region     string `mapstructure:"region"`
	PublicBase string `mapstructure:"public_base" validate:"omitempty,url"`
	// Applies an anonymous read policy to the bucket when it is provisioned
	PublicRead bool `mapstructure:"public_read"`
}

type DiskConfig struct {
	StorageRoot string `mapstructure:"storage_root" validate:"required"`
	ReadURL     string `mapstructure:"read_url" validate:"required,url"`
}

type Config struct {
	// Selects the backend: gcp, aws, minio or disk
	Driver       string `mapstructure:"driver" validate:"omitempty,oneof=gcp aws minio disk"`
	PageSize     int    `mapstructure:"page_size" validate:"gte=0,lte=1000"`
	CacheControl string `mapstructure:"cache_control"`

	GCP   *GCPConfig   `mapstructure:"gcp"`
	AWS   *AWSConfig   `mapstructure:"aws"`
	MinIO *MinIOConfig `mapstructure:"minio"`
	Disk  *DiskConfig  `mapstructure:"disk"`
}

// Fills in zero-valued fields that have a documented default
func (c *Config) ApplyDefaults() {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	c.PageSize = storage.ResolvePageSize(c.PageSize)
	if c.AWS != nil && c.AWS.Region == "" {
		c.AWS.Region = DefaultAWSRegion
	}
}

// Validates the shared settings and every backend block that is present
func (c *Config) Validate() error {
	if err := ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
