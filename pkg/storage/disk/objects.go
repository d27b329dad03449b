// File: pkg/storage/disk/objects.go
package disk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hubstore/pkg/storage"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Metadata a static file server needs to serve the object the way a bucket would
type objectMeta struct {
	ContentType  string `yaml:"content_type,omitempty"`
	CacheControl string `yaml:"cache_control,omitempty"`
	Size         int64  `yaml:"size"`
}

// PerformWrite spools the content into the metadata area, commits the sidecar and then
// renames the object into place, so readers never observe a partial object
func (d *DiskStorage) PerformWrite(ctx context.Context, req storage.WriteRequest) (string, error) {
	if !storage.IsPathValid(req.Path) {
		return "", storage.NewInvalidPathError(req.Path)
	}

	key := req.Key()
	path, err := d.objectPath(key)
	if err != nil {
		return "", err
	}
	metaPath := d.metaPath(key)
	d.logger.Debug("Starting disk write", "key", key, "contentType", req.ContentType, "contentLength", req.ContentLength)

	if err := ctx.Err(); err != nil {
		return "", storage.NewStorageFailure("write", d.root, key, err)
	}
	for _, dir := range []string{filepath.Dir(path), filepath.Dir(metaPath), d.tmpDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", storage.NewStorageFailure("write", d.root, key, err)
		}
	}

	tmp, size, err := d.spool(req)
	if err != nil {
		d.logger.Error("Failed to spool object", "key", key, "error", err)
		return "", storage.NewStorageFailure("write", d.root, key, err)
	}
	defer os.Remove(tmp)

	previous, prevErr := os.ReadFile(metaPath)
	meta := objectMeta{ContentType: req.ContentType, CacheControl: d.cacheControl, Size: size}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", storage.NewStorageFailure("write", d.root, key, err)
	}

	if err := atomic.ReplaceFile(tmp, path); err != nil {
		d.logger.Error("Failed to move object into place", "key", key, "error", err)
		d.restoreMeta(metaPath, previous, prevErr == nil)
		return "", storage.NewStorageFailure("write", d.root, key, err)
	}

	return d.ReadURLPrefix() + key, nil
}

// Copies the request body into a temp file and returns its path and size
func (d *DiskStorage) spool(req storage.WriteRequest) (string, int64, error) {
	f, err := os.CreateTemp(d.tmpDir(), "upload-*")
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(f, storage.ExpectLength(req.Content, req.ContentLength))
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", 0, err
	}
	return f.Name(), size, nil
}

func writeMeta(path string, meta objectMeta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// Puts back the sidecar of the object that is still in place after a failed rename
func (d *DiskStorage) restoreMeta(path string, previous []byte, existed bool) {
	var err error
	if existed {
		err = atomic.WriteFile(path, bytes.NewReader(previous))
	} else {
		err = os.Remove(path)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		d.logger.Warn("Failed to restore object metadata", "path", path, "error", err)
	}
}

func (d *DiskStorage) readMeta(key string) (objectMeta, error) {
	var meta objectMeta
	data, err := os.ReadFile(d.metaPath(key))
	if err != nil {
		return meta, err
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to decode metadata for %s: %w", key, err)
	}
	return meta, nil
}

// ListFiles walks the prefix directory in key order. The token is the last key of the
// previous page and listing resumes strictly after it.
func (d *DiskStorage) ListFiles(ctx context.Context, prefix string, page string) (storage.ListFilesResult, error) {
	listPrefix := storage.ListPrefix(prefix)
	d.logger.Debug("Starting disk list", "prefix", listPrefix, "pageSize", d.pageSize, "startAfter", page)

	keys, err := d.walkKeys(ctx, listPrefix)
	if err != nil {
		return storage.ListFilesResult{}, storage.NewStorageFailure("list", d.root, listPrefix, err)
	}

	start := 0
	if page != "" {
		start = sort.Search(len(keys), func(i int) bool { return keys[i] > page })
	}
	keys = keys[start:]

	var result storage.ListFilesResult
	if len(keys) > d.pageSize {
		keys = keys[:d.pageSize]
		result.Page = keys[len(keys)-1]
	}

	result.Entries = make([]string, 0, len(keys))
	for _, key := range keys {
		result.Entries = append(result.Entries, storage.StripPrefix(prefix, key))
	}
	return result, nil
}

// Returns every object key under listPrefix, sorted bytewise like a bucket listing
func (d *DiskStorage) walkKeys(ctx context.Context, listPrefix string) ([]string, error) {
	dir := filepath.Join(d.root, filepath.FromSlash(listPrefix))
	if !within(d.root, dir) {
		return nil, nil
	}

	var keys []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == metaDirName && filepath.Dir(path) == d.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, listPrefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

func (d *DiskStorage) PerformDelete(ctx context.Context, req storage.DeleteRequest) error {
	if !storage.IsPathValid(req.Path) {
		return storage.NewInvalidPathError(req.Path)
	}

	key := req.Key()
	path, err := d.objectPath(key)
	if err != nil {
		return err
	}
	d.logger.Debug("Starting disk delete", "key", key)

	if err := ctx.Err(); err != nil {
		return storage.NewStorageFailure("delete", d.root, key, err)
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = errors.Join(storage.ErrObjectNotFound, err)
		}
		return storage.NewStorageFailure("delete", d.root, key, err)
	}

	if err := os.Remove(d.metaPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		d.logger.Warn("Failed to remove object metadata", "key", key, "error", err)
	}
	return nil
}

// BucketUsage sums the sizes of every object file below the root
func (d *DiskStorage) BucketUsage(ctx context.Context) (int64, error) {
	var total int64
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == metaDirName && filepath.Dir(path) == d.root {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, storage.NewStorageFailure("usage", d.root, "", err)
	}
	return total, nil
}
