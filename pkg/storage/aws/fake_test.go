package aws

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type storedObject struct {
	body         []byte
	contentType  string
	cacheControl string
	acl          types.ObjectCannedACL
}

// fakeS3 keeps a single bucket in memory and pages listings the way S3 does
type fakeS3 struct {
	mu            sync.Mutex
	bucketExists  bool
	objects       map[string]storedObject
	putCalls      int
	createCalls   int
	lastCreate    *s3.CreateBucketInput
	putErr        error
	headBucketErr error
}

func newFakeS3(bucketExists bool) *fakeS3 {
	return &fakeS3{bucketExists: bucketExists, objects: make(map[string]storedObject)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	f.putCalls++
	putErr := f.putErr
	f.mu.Unlock()

	if putErr != nil {
		return nil, putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if in.ContentLength != nil && *in.ContentLength != int64(len(data)) {
		return nil, fmt.Errorf("content length %d does not match body of %d bytes", *in.ContentLength, len(data))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.bucketExists {
		return nil, &types.NoSuchBucket{Message: aws.String("bucket missing")}
	}
	f.objects[aws.ToString(in.Key)] = storedObject{
		body:         data,
		contentType:  aws.ToString(in.ContentType),
		cacheControl: aws.ToString(in.CacheControl),
		acl:          in.ACL,
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := aws.ToString(in.Prefix)
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if token := aws.ToString(in.ContinuationToken); token != "" {
		decoded, err := base64.StdEncoding.DecodeString(token)
		if err != nil {
			return nil, fmt.Errorf("invalid continuation token")
		}
		start := sort.SearchStrings(keys, string(decoded))
		for start < len(keys) && keys[start] <= string(decoded) {
			start++
		}
		keys = keys[start:]
	}

	maxKeys := int(aws.ToInt32(in.MaxKeys))
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if len(keys) > maxKeys {
		keys = keys[:maxKeys]
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(base64.StdEncoding.EncodeToString([]byte(keys[len(keys)-1])))
	}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.headBucketErr != nil {
		return nil, f.headBucketErr
	}
	if !f.bucketExists {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastCreate = in
	if f.bucketExists {
		return nil, &types.BucketAlreadyOwnedByYou{}
	}
	f.bucketExists = true
	return &s3.CreateBucketOutput{}, nil
}

var _ s3API = (*fakeS3)(nil)
