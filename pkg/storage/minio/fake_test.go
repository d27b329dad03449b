package minio

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	miniogo "github.com/minio/minio-go/v7"
)

type fakeObject struct {
	body         []byte
	contentType  string
	cacheControl string
}

// fakeMinIO serves one bucket from memory, listing keys in lexical order like the server
type fakeMinIO struct {
	mu           sync.Mutex
	bucketExists bool
	objects      map[string]fakeObject
	policy       string
	putCalls     int
	makeCalls    int
	makeRegion   string
	existsErr    error
	putErr       error
}

func newFakeMinIO(bucketExists bool) *fakeMinIO {
	return &fakeMinIO{bucketExists: bucketExists, objects: make(map[string]fakeObject)}
}

func (f *fakeMinIO) BucketExists(_ context.Context, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.bucketExists, nil
}

func (f *fakeMinIO) MakeBucket(_ context.Context, _ string, opts miniogo.MakeBucketOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.makeCalls++
	f.makeRegion = opts.Region
	if f.bucketExists {
		return miniogo.ErrorResponse{Code: "BucketAlreadyOwnedByYou", StatusCode: http.StatusConflict}
	}
	f.bucketExists = true
	return nil
}

func (f *fakeMinIO) SetBucketPolicy(_ context.Context, _ string, policy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.policy = policy
	return nil
}

func (f *fakeMinIO) PutObject(_ context.Context, _ string, objectName string, reader io.Reader, _ int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	f.mu.Lock()
	f.putCalls++
	putErr := f.putErr
	f.mu.Unlock()
	if putErr != nil {
		return miniogo.UploadInfo{}, putErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return miniogo.UploadInfo{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.bucketExists {
		return miniogo.UploadInfo{}, miniogo.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}
	}
	f.objects[objectName] = fakeObject{body: data, contentType: opts.ContentType, cacheControl: opts.CacheControl}
	return miniogo.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeMinIO) ListObjects(ctx context.Context, _ string, opts miniogo.ListObjectsOptions) <-chan miniogo.ObjectInfo {
	f.mu.Lock()
	var infos []miniogo.ObjectInfo
	for key, obj := range f.objects {
		if strings.HasPrefix(key, opts.Prefix) && key > opts.StartAfter {
			infos = append(infos, miniogo.ObjectInfo{Key: key, Size: int64(len(obj.body))})
		}
	}
	f.mu.Unlock()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })

	ch := make(chan miniogo.ObjectInfo)
	go func() {
		defer close(ch)
		for _, info := range infos {
			select {
			case ch <- info:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (f *fakeMinIO) StatObject(_ context.Context, _ string, objectName string, _ miniogo.StatObjectOptions) (miniogo.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[objectName]
	if !ok {
		return miniogo.ObjectInfo{}, miniogo.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	}
	return miniogo.ObjectInfo{Key: objectName, Size: int64(len(obj.body))}, nil
}

func (f *fakeMinIO) RemoveObject(_ context.Context, _ string, objectName string, _ miniogo.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectName)
	return nil
}

var _ minioAPI = (*fakeMinIO)(nil)
