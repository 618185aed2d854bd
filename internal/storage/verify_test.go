package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirejourne/prep-agent/internal/config"
)

// fakeS3 is an in-memory stand-in for the S3 backend.
type fakeS3 struct {
	mu        sync.Mutex
	buckets   map[string]map[string][]byte
	listErr   error
	putErr    map[string]error
	copyErr   map[string]error
	listCalls int
}

func newFakeS3(bucketNames ...string) *fakeS3 {
	buckets := map[string]map[string][]byte{}
	for _, name := range bucketNames {
		buckets[name] = map[string][]byte{}
	}
	return &fakeS3{
		buckets: buckets,
		putErr:  map[string]error{},
		copyErr: map[string]error{},
	}
}

func (f *fakeS3) ListBuckets(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := &s3.ListBucketsOutput{}
	for name := range f.buckets {
		out.Buckets = append(out.Buckets, s3types.Bucket{Name: aws.String(name)})
	}
	return out, nil
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket, key := aws.ToString(params.Bucket), aws.ToString(params.Key)
	if err := f.putErr[key]; err != nil {
		return nil, err
	}
	objects, ok := f.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("no such bucket %s", bucket)
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	objects[key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.buckets[aws.ToString(params.Bucket)][aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.buckets[aws.ToString(params.Bucket)][aws.ToString(params.Key)]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(_ context.Context, params *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.SplitN(aws.ToString(params.CopySource), "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("bad copy source %q", aws.ToString(params.CopySource))
	}
	srcBucket, srcKey := parts[0], parts[1]
	if err := f.copyErr[srcKey]; err != nil {
		return nil, err
	}
	data, ok := f.buckets[srcBucket][srcKey]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	f.buckets[aws.ToString(params.Bucket)][aws.ToString(params.Key)] = data
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.buckets[aws.ToString(params.Bucket)], aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) object(bucket, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.buckets[bucket][key]
	return data, ok
}

func newFakeClient(fake *fakeS3) *Client {
	return &Client{
		s3: fake,
		cfg: config.StorageConfig{
			Endpoint:      "http://localhost:9000",
			Region:        "us-east-1",
			ResumesBucket: "resumes",
			ReportsBucket: "reports",
		},
		backoff: time.Millisecond,
	}
}

func TestVerifyWithRetrySucceeds(t *testing.T) {
	fake := newFakeS3("resumes", "reports")
	c := newFakeClient(fake)

	require.NoError(t, c.VerifyWithRetry(context.Background()))

	assert.Equal(t, 1, fake.listCalls)
	_, ok := fake.object("reports", ".storage-probe")
	assert.False(t, ok, "probe object should be cleaned up")
}

func TestVerifyWithRetryMissingBuckets(t *testing.T) {
	fake := newFakeS3("resumes")
	c := newFakeClient(fake)

	start := time.Now()
	err := c.VerifyWithRetry(context.Background())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBucketsMissing)
	assert.Contains(t, err.Error(), "Required storage buckets are missing")
	assert.Contains(t, err.Error(), "reports")
	assert.Equal(t, 3, fake.listCalls)
	// Two waits with doubling backoff separate the three attempts.
	assert.GreaterOrEqual(t, elapsed, 3*time.Millisecond)
}

func TestVerifyWithRetryProbeFailure(t *testing.T) {
	fake := newFakeS3("resumes", "reports")
	fake.putErr[".storage-probe"] = fmt.Errorf("access denied")
	c := newFakeClient(fake)

	err := c.VerifyWithRetry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "round-trip probe")
	assert.Equal(t, 3, fake.listCalls)
}

func TestVerifyWithRetryStopsOnCancel(t *testing.T) {
	fake := newFakeS3("resumes")
	c := newFakeClient(fake)
	c.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.VerifyWithRetry(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.listCalls)
}
