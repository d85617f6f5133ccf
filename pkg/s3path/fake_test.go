package s3path

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/3leaps/s3path/pkg/s3client"
)

// fakeClient is an in-memory s3client.Client with delimiter listing
// semantics, plus call counters for asserting probe costs.
type fakeClient struct {
	mu      sync.Mutex
	buckets map[string]map[string]fakeObject

	headCalls int
	listCalls int

	// failList makes ListObjects fail, for exercising the
	// listing-failure-means-empty iteration contract.
	failList bool
}

type fakeObject struct {
	data    []byte
	modTime time.Time
}

func newFakeClient(buckets ...string) *fakeClient {
	c := &fakeClient{buckets: map[string]map[string]fakeObject{}}
	for _, b := range buckets {
		c.buckets[b] = map[string]fakeObject{}
	}
	return c
}

func (c *fakeClient) put(bucket, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buckets[bucket] == nil {
		c.buckets[bucket] = map[string]fakeObject{}
	}
	c.buckets[bucket][key] = fakeObject{data: data, modTime: time.Now()}
}

func (c *fakeClient) objectCount(bucket string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets[bucket])
}

func (c *fakeClient) has(bucket, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.buckets[bucket][key]
	return ok
}

func (c *fakeClient) notFound(op, bucket, key string) error {
	return &s3client.ClientError{Op: op, Backend: "fake", Bucket: bucket, Key: key, Err: s3client.ErrNotFound}
}

func (c *fakeClient) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obj, ok := c.buckets[bucket][key]
	if !ok {
		return nil, c.notFound("GetObject", bucket, key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (c *fakeClient) PutObject(_ context.Context, bucket, key string) (io.WriteCloser, error) {
	return &fakeWriter{client: c, bucket: bucket, key: key}, nil
}

func (c *fakeClient) HeadObject(_ context.Context, bucket, key string) (*s3client.ObjectInfo, error) {
	c.mu.Lock()
	c.headCalls++
	obj, ok := c.buckets[bucket][key]
	c.mu.Unlock()
	if !ok {
		return nil, c.notFound("HeadObject", bucket, key)
	}
	return &s3client.ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		LastModified: obj.modTime,
	}, nil
}

func (c *fakeClient) ListObjects(_ context.Context, bucket string, opts s3client.ListOptions) (*s3client.ListPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	if c.failList {
		return nil, errors.New("fake: listing unavailable")
	}

	keys := make([]string, 0, len(c.buckets[bucket]))
	for k := range c.buckets[bucket] {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = 1000
	}

	page := &s3client.ListPage{}
	seenPrefixes := map[string]bool{}
	count := 0
	last := ""
	for _, k := range keys {
		if opts.ContinuationToken != "" && k <= opts.ContinuationToken {
			continue
		}
		if count >= maxKeys {
			page.IsTruncated = true
			page.ContinuationToken = last
			break
		}
		rest := strings.TrimPrefix(k, opts.Prefix)
		if i := strings.Index(rest, opts.Delimiter); opts.Delimiter != "" && i >= 0 {
			cp := opts.Prefix + rest[:i+len(opts.Delimiter)]
			if !seenPrefixes[cp] {
				seenPrefixes[cp] = true
				page.CommonPrefixes = append(page.CommonPrefixes, cp)
				count++
			}
		} else {
			obj := c.buckets[bucket][k]
			page.Objects = append(page.Objects, s3client.ObjectInfo{
				Key:          k,
				Size:         int64(len(obj.data)),
				LastModified: obj.modTime,
			})
			count++
		}
		last = k
	}
	return page, nil
}

func (c *fakeClient) DeleteObject(_ context.Context, bucket, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.buckets[bucket], key)
	return nil
}

func (c *fakeClient) Close() error { return nil }

// fakeWriter buffers writes and commits the object on Close.
type fakeWriter struct {
	client *fakeClient
	bucket string
	key    string
	buf    bytes.Buffer
}

func (w *fakeWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *fakeWriter) Close() error {
	w.client.put(w.bucket, w.key, w.buf.Bytes())
	return nil
}
