// Package aws implements the s3client contract on AWS S3 and S3-compatible
// stores via the AWS SDK v2.
package aws

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"golang.org/x/time/rate"

	"github.com/3leaps/s3path/pkg/s3client"
)

const backendName = "s3"

// DefaultMaxKeys is the default page size for ListObjects.
const DefaultMaxKeys = 1000

// MaxAllowedKeys is the maximum page size S3 accepts.
const MaxAllowedKeys = 1000

// Options configures a Client.
//
// Credentials follow the AWS SDK v2 default chain unless AccessKeyID and
// SecretAccessKey are both set. For S3-compatible stores (MinIO, Wasabi,
// gofakes3) set Endpoint and usually ForcePathStyle.
type Options struct {
	// Region is the bucket region. Empty resolves through
	// s3client.ResolveRegion (env vars, then the fixed default).
	Region string

	// Endpoint is a custom endpoint URL for S3-compatible stores.
	Endpoint string

	// Profile selects a shared-config profile. Empty uses the default.
	Profile string

	// AccessKeyID and SecretAccessKey are explicit static credentials.
	// Both must be set together.
	AccessKeyID     string
	SecretAccessKey string

	// ForcePathStyle forces path-style URLs (bucket in path, not subdomain).
	ForcePathStyle bool

	// MaxKeys is the default page size for listing. Zero uses DefaultMaxKeys.
	MaxKeys int

	// ListRateLimit caps ListObjects calls per second across the client.
	// Zero disables client-side limiting.
	ListRateLimit float64

	// Transfer holds throughput/part-size settings. Zero fields resolve
	// through s3client.ResolveConfig.
	Transfer s3client.Config
}

// Validate checks that the options are internally consistent.
func (o *Options) Validate() error {
	if (o.AccessKeyID != "") != (o.SecretAccessKey != "") {
		return errors.New("aws options: access key ID and secret access key must be provided together")
	}
	return nil
}

// Client implements s3client.Client on the AWS SDK v2.
// It is safe for concurrent use.
type Client struct {
	api      *s3.Client
	transfer s3client.Config
	maxKeys  int
	limiter  *rate.Limiter
}

var _ s3client.Client = (*Client)(nil)

// New creates a Client from the given options.
func New(ctx context.Context, opts Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	loadOpts = append(loadOpts, awsconfig.WithRegion(s3client.ResolveRegion(opts.Region)))
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &s3client.ClientError{Op: "New", Backend: backendName, Err: err}
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.ForcePathStyle {
			o.UsePathStyle = true
		}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	c := &Client{
		api:      api,
		transfer: s3client.ResolveConfig(opts.Transfer),
		maxKeys:  maxKeys,
	}
	if opts.ListRateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.ListRateLimit), 1)
	}
	return c, nil
}

// GetObject opens a streaming read of bucket/key.
func (c *Client) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, c.wrapError("GetObject", bucket, key, err)
	}
	return out.Body, nil
}

// HeadObject returns metadata for bucket/key.
func (c *Client) HeadObject(ctx context.Context, bucket, key string) (*s3client.ObjectInfo, error) {
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, c.wrapError("HeadObject", bucket, key, err)
	}
	return &s3client.ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ETag:         cleanETag(aws.ToString(out.ETag)),
		ContentType:  aws.ToString(out.ContentType),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// ListObjects returns one page of keys under a prefix, honoring the
// delimiter when set.
func (c *Client) ListObjects(ctx context.Context, bucket string, opts s3client.ListOptions) (*s3client.ListPage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(int32(clampMaxKeys(opts.MaxKeys, c.maxKeys))),
	}
	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}
	if opts.Delimiter != "" {
		input.Delimiter = aws.String(opts.Delimiter)
	}
	if opts.ContinuationToken != "" {
		input.ContinuationToken = aws.String(opts.ContinuationToken)
	}

	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, c.wrapError("ListObjects", bucket, opts.Prefix, err)
	}

	page := &s3client.ListPage{
		Objects:           make([]s3client.ObjectInfo, 0, len(out.Contents)),
		CommonPrefixes:    make([]string, 0, len(out.CommonPrefixes)),
		ContinuationToken: aws.ToString(out.NextContinuationToken),
		IsTruncated:       aws.ToBool(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		page.Objects = append(page.Objects, s3client.ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			ETag:         cleanETag(aws.ToString(obj.ETag)),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	for _, cp := range out.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(cp.Prefix))
	}
	return page, nil
}

// DeleteObject removes bucket/key. S3 DeleteObject succeeds for nonexistent
// keys, which satisfies the idempotency contract.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return c.wrapError("DeleteObject", bucket, key, err)
	}
	return nil
}

// Close releases resources. The SDK client needs no explicit cleanup.
func (c *Client) Close() error {
	return nil
}

// wrapError converts SDK errors to the shared taxonomy. Typed errors are
// checked first, then smithy API codes, then a message fallback for transports
// that surface bare status lines.
func (c *Client) wrapError(op, bucket, key string, err error) error {
	wrapped := &s3client.ClientError{
		Op:      op,
		Backend: backendName,
		Bucket:  bucket,
		Key:     key,
		Err:     err,
	}

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	switch {
	case errors.As(err, &notFound), errors.As(err, &noSuchKey):
		wrapped.Err = s3client.ErrNotFound
		return wrapped
	case errors.As(err, &noSuchBucket):
		wrapped.Err = s3client.ErrBucketNotFound
		return wrapped
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			wrapped.Err = s3client.ErrNotFound
		case "NoSuchBucket":
			wrapped.Err = s3client.ErrBucketNotFound
		case "AccessDenied", "Forbidden":
			wrapped.Err = s3client.ErrAccessDenied
		case "InvalidAccessKeyId", "SignatureDoesNotMatch":
			wrapped.Err = s3client.ErrInvalidCredentials
		case "SlowDown", "Throttling", "RequestLimitExceeded":
			wrapped.Err = s3client.ErrThrottled
		case "ServiceUnavailable", "InternalError":
			wrapped.Err = s3client.ErrUnavailable
		}
		return wrapped
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchKey"), strings.Contains(msg, "NotFound"), strings.Contains(msg, "404"):
		wrapped.Err = s3client.ErrNotFound
	case strings.Contains(msg, "NoSuchBucket"):
		wrapped.Err = s3client.ErrBucketNotFound
	case strings.Contains(msg, "AccessDenied"), strings.Contains(msg, "Forbidden"), strings.Contains(msg, "403"):
		wrapped.Err = s3client.ErrAccessDenied
	case strings.Contains(msg, "InvalidAccessKeyId"), strings.Contains(msg, "SignatureDoesNotMatch"):
		wrapped.Err = s3client.ErrInvalidCredentials
	case strings.Contains(msg, "SlowDown"), strings.Contains(msg, "Throttling"), strings.Contains(msg, "429"):
		wrapped.Err = s3client.ErrThrottled
	case strings.Contains(msg, "ServiceUnavailable"), strings.Contains(msg, "503"):
		wrapped.Err = s3client.ErrUnavailable
	}
	return wrapped
}

// cleanETag removes surrounding quotes from an ETag value.
func cleanETag(etag string) string {
	return strings.Trim(etag, "\"")
}

// clampMaxKeys applies the default and the S3 page-size ceiling.
func clampMaxKeys(requested, def int) int {
	if requested <= 0 {
		requested = def
	}
	if requested > MaxAllowedKeys {
		return MaxAllowedKeys
	}
	return requested
}
