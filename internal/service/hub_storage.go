// File: internal/service/hub_storage.go
package service

import (
	"context"
	"errors"
	"fmt"
	"hubstore/pkg/storage"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Upper bound on concurrent tenant listings issued by ListTenants
const listConcurrency = 4

var ErrUsageUnsupported = errors.New("the active driver does not report bucket usage")

// HubStorage is the file hub's single entry point to storage. It holds exactly one
// driver for the lifetime of the process.
type HubStorage struct {
	driver storage.Driver
	logger *slog.Logger
}

func NewHubStorage(driver storage.Driver, logger *slog.Logger) *HubStorage {
	return &HubStorage{
		driver: driver,
		logger: logger.With("service", "HubStorage", "provider", driver.ProviderName()),
	}
}

// Driver exposes the underlying driver, mainly for provisioning at startup
func (s *HubStorage) Driver() storage.Driver {
	return s.driver
}

func (s *HubStorage) ReadURLPrefix() string {
	return s.driver.ReadURLPrefix()
}

// --- Object Operations ---

func (s *HubStorage) WriteFile(ctx context.Context, storageTopLevel, path string, content io.Reader, contentLength int64, contentType string) (string, error) {
	s.logger.Debug("Starting WriteFile operation", "top", storageTopLevel, "path", path, "contentLength", contentLength)

	url, err := s.driver.PerformWrite(ctx, storage.WriteRequest{
		Path:            path,
		StorageTopLevel: storageTopLevel,
		Content:         content,
		ContentLength:   contentLength,
		ContentType:     contentType,
	})
	if err != nil {
		s.logger.Error("Failed to write file", "top", storageTopLevel, "path", path, "error", err)
		return "", err
	}
	return url, nil
}

func (s *HubStorage) ListFiles(ctx context.Context, prefix, page string) (storage.ListFilesResult, error) {
	s.logger.Debug("Starting ListFiles operation", "prefix", prefix, "continued", page != "")

	result, err := s.driver.ListFiles(ctx, prefix, page)
	if err != nil {
		s.logger.Error("Failed to list files", "prefix", prefix, "error", err)
		return storage.ListFilesResult{}, err
	}
	return result, nil
}

// ListAllFiles follows continuation tokens until the listing under prefix is exhausted
func (s *HubStorage) ListAllFiles(ctx context.Context, prefix string) ([]string, error) {
	var all []string
	page := ""
	for {
		result, err := s.ListFiles(ctx, prefix, page)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Entries...)
		if !result.HasMore() {
			return all, nil
		}
		if result.Page == page {
			return nil, fmt.Errorf("listing of %q did not advance past page %q", prefix, page)
		}
		page = result.Page
	}
}

// ListTenants lists several tenant prefixes concurrently. The first failure cancels the rest.
func (s *HubStorage) ListTenants(ctx context.Context, prefixes []string) (map[string][]string, error) {
	if len(prefixes) == 0 {
		return map[string][]string{}, nil
	}
	s.logger.Debug("Starting ListTenants operation", "prefixes", prefixes)

	results := make(map[string][]string, len(prefixes))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(listConcurrency)
	for _, prefix := range prefixes {
		eg.Go(func() error {
			entries, err := s.ListAllFiles(ctx, prefix)
			if err != nil {
				return fmt.Errorf("listing %q: %w", prefix, err)
			}
			mu.Lock()
			results[prefix] = entries
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *HubStorage) DeleteFile(ctx context.Context, storageTopLevel, path string) error {
	s.logger.Debug("Starting DeleteFile operation", "top", storageTopLevel, "path", path)

	err := s.driver.PerformDelete(ctx, storage.DeleteRequest{Path: path, StorageTopLevel: storageTopLevel})
	if err != nil {
		s.logger.Error("Failed to delete file", "top", storageTopLevel, "path", path, "error", err)
		return err
	}
	return nil
}

// --- Bucket Operations ---

func (s *HubStorage) Provision(ctx context.Context) error {
	return storage.Provision(ctx, s.driver)
}

func (s *HubStorage) BucketName() string {
	if p, ok := s.driver.(storage.Provisioner); ok {
		return p.BucketName()
	}
	return ""
}

func (s *HubStorage) BucketUsage(ctx context.Context) (int64, error) {
	reporter, ok := s.driver.(storage.UsageReporter)
	if !ok {
		return 0, ErrUsageUnsupported
	}

	usage, err := reporter.BucketUsage(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch bucket usage", "error", err)
		return 0, err
	}
	return usage, nil
}

func (s *HubStorage) Close() error {
	return s.driver.Close()
}
