// File: pkg/storage/disk/buckets.go
package disk

import (
	"context"
	"fmt"
	"os"
)

// EnsureBucket creates the storage root if it is missing
func (d *DiskStorage) EnsureBucket(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(d.root)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("storage root %s is not a directory", d.root)
		}
		d.logger.Debug("Storage root already exists")
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("error checking storage root: %w", err)
	}

	d.logger.Info("Storage root does not exist, creating it")
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("failed to create storage root: %w", err)
	}
	return nil
}
