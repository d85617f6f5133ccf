// Package minio implements the s3client contract with the MinIO Go SDK, for
// deployments standardized on minio-go rather than the AWS SDK.
package minio

import (
	"context"
	"io"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/3leaps/s3path/pkg/s3client"
)

const backendName = "minio"

// Options configures a Client.
type Options struct {
	// Endpoint is the host:port of the MinIO/S3-compatible server.
	Endpoint string

	// AccessKey and SecretKey are static credentials.
	AccessKey string
	SecretKey string

	// UseSSL enables TLS.
	UseSSL bool

	// Region is passed to the SDK; usually empty for MinIO.
	Region string

	// Transfer holds throughput/part-size settings. Zero fields resolve
	// through s3client.ResolveConfig.
	Transfer s3client.Config
}

// Client implements s3client.Client on minio-go.
// It is safe for concurrent use.
type Client struct {
	api      *miniogo.Client
	transfer s3client.Config
}

var _ s3client.Client = (*Client)(nil)

// New connects to the configured endpoint and returns a Client.
func New(opts Options) (*Client, error) {
	api, err := miniogo.New(opts.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, &s3client.ClientError{Op: "New", Backend: backendName, Err: err}
	}
	return &Client{
		api:      api,
		transfer: s3client.ResolveConfig(opts.Transfer),
	}, nil
}

// GetObject opens a streaming read of bucket/key.
//
// minio-go defers the request until the first read, so the object is stat'd
// up front to surface ErrNotFound at open time.
func (c *Client) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := c.api.GetObject(ctx, bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError("GetObject", bucket, key, err)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapError("GetObject", bucket, key, err)
	}
	return obj, nil
}

// PutObject opens a streaming write to bucket/key. The upload runs in a
// background goroutine fed by a pipe; Close finalizes the object.
func (c *Client) PutObject(ctx context.Context, bucket, key string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()
	w := &objectWriter{pw: pw, errc: make(chan error, 1)}
	go func() {
		_, err := c.api.PutObject(ctx, bucket, key, pr, -1, miniogo.PutObjectOptions{
			PartSize: uint64(c.transfer.PartSize),
		})
		if err != nil {
			err = mapError("PutObject", bucket, key, err)
			_ = pr.CloseWithError(err)
		}
		w.errc <- err
	}()
	return w, nil
}

// HeadObject returns metadata for bucket/key.
func (c *Client) HeadObject(ctx context.Context, bucket, key string) (*s3client.ObjectInfo, error) {
	stat, err := c.api.StatObject(ctx, bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError("HeadObject", bucket, key, err)
	}
	return &s3client.ObjectInfo{
		Key:          stat.Key,
		Size:         stat.Size,
		ETag:         stat.ETag,
		ContentType:  stat.ContentType,
		LastModified: stat.LastModified,
	}, nil
}

// ListObjects lists keys under a prefix. minio-go streams entries and pages
// internally, so results arrive as a single page; with a delimiter set,
// non-recursive listing reports child prefixes as zero-size entries ending in
// the delimiter, which are split out into CommonPrefixes.
func (c *Client) ListObjects(ctx context.Context, bucket string, opts s3client.ListOptions) (*s3client.ListPage, error) {
	recursive := opts.Delimiter == ""
	page := &s3client.ListPage{}
	count := 0
	for entry := range c.api.ListObjects(ctx, bucket, miniogo.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: recursive,
	}) {
		if entry.Err != nil {
			return nil, mapError("ListObjects", bucket, opts.Prefix, entry.Err)
		}
		if !recursive && strings.HasSuffix(entry.Key, opts.Delimiter) && entry.Key != opts.Prefix && entry.Size == 0 {
			page.CommonPrefixes = append(page.CommonPrefixes, entry.Key)
		} else {
			page.Objects = append(page.Objects, s3client.ObjectInfo{
				Key:          entry.Key,
				Size:         entry.Size,
				ETag:         strings.Trim(entry.ETag, "\""),
				ContentType:  entry.ContentType,
				LastModified: entry.LastModified,
			})
		}
		count++
		if opts.MaxKeys > 0 && count >= opts.MaxKeys {
			break
		}
	}
	return page, nil
}

// DeleteObject removes bucket/key. MinIO treats removal of a nonexistent key
// as success, matching the idempotency contract.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := c.api.RemoveObject(ctx, bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return mapError("DeleteObject", bucket, key, err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no persistent connections.
func (c *Client) Close() error {
	return nil
}

// objectWriter is the io.WriteCloser returned by PutObject.
type objectWriter struct {
	pw   *io.PipeWriter
	errc chan error
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *objectWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.errc
}
