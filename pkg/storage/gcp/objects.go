// File: pkg/storage/gcp/objects.go
package gcp

import (
	"context"
	"errors"
	"fmt"
	"hubstore/pkg/storage"
	"io"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

const publicReadACL = "publicRead"

func (g *GCPStorage) PerformWrite(ctx context.Context, req storage.WriteRequest) (string, error) {
	if !storage.IsPathValid(req.Path) {
		return "", storage.NewInvalidPathError(req.Path)
	}

	key := req.Key()
	g.logger.Debug("Starting GCP write", "key", key, "contentType", req.ContentType, "contentLength", req.ContentLength)

	// Cancelling the writer's context is the only way to abort an upload before Close commits it
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(writeCtx)
	w.ContentType = req.ContentType
	w.CacheControl = g.cacheControl
	// A zero chunk size sends the object in a single, non-resumable request
	w.ChunkSize = 0
	if !g.uniformAccess {
		w.PredefinedACL = publicReadACL
	}

	if _, err := io.Copy(w, storage.ExpectLength(req.Content, req.ContentLength)); err != nil {
		cancel()
		_ = w.Close()
		g.logger.Error("Failed to stream object to GCS", "key", key, "error", err)
		return "", storage.NewStorageFailure("write", g.bucket, key, err)
	}

	if err := w.Close(); err != nil {
		g.logger.Error("Failed to finalize GCS upload", "key", key, "error", err)
		return "", storage.NewStorageFailure("write", g.bucket, key, err)
	}

	return g.ReadURLPrefix() + key, nil
}

func (g *GCPStorage) ListFiles(ctx context.Context, prefix string, page string) (storage.ListFilesResult, error) {
	listPrefix := storage.ListPrefix(prefix)
	g.logger.Debug("Starting GCP list", "prefix", listPrefix, "pageSize", g.pageSize, "continued", page != "")

	query := &gcpstorage.Query{Prefix: listPrefix}
	if err := query.SetAttrSelection([]string{"Name"}); err != nil {
		return storage.ListFilesResult{}, fmt.Errorf("error building list query: %w", err)
	}

	it := g.client.Bucket(g.bucket).Objects(ctx, query)

	var attrs []*gcpstorage.ObjectAttrs
	nextPage, err := iterator.NewPager(it, g.pageSize, page).NextPage(&attrs)
	if err != nil {
		return storage.ListFilesResult{}, storage.NewStorageFailure("list", g.bucket, listPrefix, err)
	}

	return storage.ListFilesResult{
		Entries: mapObjectNames(prefix, attrs),
		Page:    nextPage,
	}, nil
}

func (g *GCPStorage) PerformDelete(ctx context.Context, req storage.DeleteRequest) error {
	if !storage.IsPathValid(req.Path) {
		return storage.NewInvalidPathError(req.Path)
	}

	key := req.Key()
	g.logger.Debug("Starting GCP delete", "key", key)

	if err := g.client.Bucket(g.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, gcpstorage.ErrObjectNotExist) {
			err = errors.Join(storage.ErrObjectNotFound, err)
		}
		return storage.NewStorageFailure("delete", g.bucket, key, err)
	}
	return nil
}
