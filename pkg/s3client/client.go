// Package s3client defines the storage-client contract consumed by the path
// layer, plus the shared configuration and error taxonomy its implementations
// use.
//
// Implementations live in subpackages (aws, minio). They should:
//   - Use SDK default credential chains unless explicit credentials are given
//   - Be safe for concurrent use
//   - Map backend "no such key" conditions to ErrNotFound
package s3client

import (
	"context"
	"io"
	"time"
)

// Client abstracts the object-storage primitives the path layer builds on.
//
// DeleteObject is idempotent: deleting a nonexistent key is not an error.
type Client interface {
	// GetObject opens a streaming read of the object at bucket/key.
	// Returns ErrNotFound (wrapped) if the object does not exist.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// PutObject opens a streaming write to bucket/key. The object is
	// finalized when the returned writer is closed.
	PutObject(ctx context.Context, bucket, key string) (io.WriteCloser, error)

	// HeadObject returns metadata for a single object.
	// Returns ErrNotFound (wrapped) if the object does not exist.
	HeadObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// ListObjects returns one page of keys under a prefix. When a delimiter
	// is set, keys sharing a prefix up to the next delimiter are grouped
	// into CommonPrefixes instead of being returned individually.
	ListObjects(ctx context.Context, bucket string, opts ListOptions) (*ListPage, error)

	// DeleteObject removes the object at bucket/key. Nonexistent keys are
	// treated as already deleted.
	DeleteObject(ctx context.Context, bucket, key string) error

	// Close releases any resources held by the client.
	Close() error
}

// ListOptions configures a ListObjects call.
type ListOptions struct {
	// Prefix filters results to keys starting with this value.
	Prefix string

	// Delimiter groups keys into common prefixes (typically "/").
	// Empty disables grouping.
	Delimiter string

	// ContinuationToken resumes listing from a previous ListPage.
	ContinuationToken string

	// MaxKeys limits the number of keys returned per page.
	// Zero uses the implementation default.
	MaxKeys int
}

// ListPage is one page of listing results.
//
// Within a page, CommonPrefixes and Objects are disjoint partitions of the
// queried prefix's immediate children.
type ListPage struct {
	// Objects are the object records for this page.
	Objects []ObjectInfo

	// CommonPrefixes are the grouped key prefixes (synthetic
	// subdirectories), each ending with the delimiter.
	CommonPrefixes []string

	// ContinuationToken retrieves the next page. Empty means no more pages.
	ContinuationToken string

	// IsTruncated indicates whether more results are available.
	IsTruncated bool
}

// ObjectInfo describes a single object.
type ObjectInfo struct {
	// Key is the full object key within the bucket.
	Key string

	// Size is the object size in bytes.
	Size int64

	// ETag is the entity tag with surrounding quotes removed.
	ETag string

	// ContentType is the MIME type, when the backend reports one.
	ContentType string

	// LastModified is when the object was last modified.
	LastModified time.Time
}
