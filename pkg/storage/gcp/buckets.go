// File: pkg/storage/gcp/buckets.go
package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// EnsureBucket creates the configured bucket when it does not exist yet
func (g *GCPStorage) EnsureBucket(ctx context.Context) error {
	g.logger.Debug("Checking GCP bucket existence")

	bucketHandle := g.client.Bucket(g.bucket)
	_, err := bucketHandle.Attrs(ctx)
	if err == nil {
		g.logger.Debug("Bucket already exists")
		return nil
	}
	if !errors.Is(err, gcpstorage.ErrBucketNotExist) {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}

	if g.projectID == "" {
		return fmt.Errorf("bucket does not exist and no project ID is configured to create it in. Use 'hubstore config set gcp.project_id <project-id>'")
	}

	g.logger.Info("Bucket does not exist, creating it", "project", g.projectID)
	if err := bucketHandle.Create(ctx, g.projectID, nil); err != nil {
		// Another process may have created it between the check and the create
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			g.logger.Debug("Bucket was created concurrently")
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	g.logger.Info("Bucket created")
	return nil
}
