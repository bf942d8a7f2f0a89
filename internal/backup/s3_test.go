package backup

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves path-style PUT and GET requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.objects[r.URL.Path] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3Sink(t *testing.T) (*S3Sink, *fakeS3) {
	t.Helper()
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	sink, err := NewS3Sink(context.Background(), S3Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		Bucket:    "diary",
		AccessKey: "minio",
		SecretKey: "minio123",
		Prefix:    "/backups/",
	})
	require.NoError(t, err)
	return sink, fake
}

func TestS3Sink_PutGet(t *testing.T) {
	ctx := context.Background()
	sink, fake := newFakeS3Sink(t)

	require.NoError(t, sink.Put(ctx, "a.json", []byte(`{"diaries":[]}`)))

	fake.mu.Lock()
	stored, ok := fake.objects["/diary/backups/a.json"]
	fake.mu.Unlock()
	require.True(t, ok, "object is addressed path-style under the prefix")
	assert.JSONEq(t, `{"diaries":[]}`, string(stored))

	data, err := sink.Get(ctx, "a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"diaries":[]}`, string(data))
}

func TestS3Sink_GetMissing(t *testing.T) {
	sink, _ := newFakeS3Sink(t)

	_, err := sink.Get(context.Background(), "missing.json")
	require.ErrorIs(t, err, ErrBackupNotFound)
}

func TestNewS3Sink_RequiresBucket(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{Endpoint: "http://localhost:9000"})
	require.Error(t, err)
}

func TestNewS3Sink_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	_, err := NewS3Sink(context.Background(), S3Config{Bucket: "b"})
	require.Error(t, err)
}

// listingClient pages through a fixed key set two at a time.
type listingClient struct {
	s3API
	keys  []string
	calls int
}

func (c *listingClient) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	c.calls++
	start := 0
	if in.ContinuationToken != nil {
		start = int(aws.ToString(in.ContinuationToken)[0] - '0')
	}
	end := min(start+2, len(c.keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(c.keys))}
	for _, k := range c.keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(c.keys) {
		out.NextContinuationToken = aws.String(string(rune('0' + end)))
	}
	return out, nil
}

func TestS3Sink_ListPaginatesAndFilters(t *testing.T) {
	client := &listingClient{keys: []string{
		"backups/diary-backup-2.json",
		"backups/nested/skip.json",
		"backups/diary-backup-1.json",
		"backups/readme.txt",
		"backups/diary-backup-3.json",
	}}
	sink := &S3Sink{client: client, bucket: "diary", prefix: "backups"}

	names, err := sink.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"diary-backup-1.json", "diary-backup-2.json", "diary-backup-3.json"}, names)
	assert.Equal(t, 3, client.calls)
}
