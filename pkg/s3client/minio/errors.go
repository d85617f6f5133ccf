package minio

import (
	miniogo "github.com/minio/minio-go/v7"

	"github.com/3leaps/s3path/pkg/s3client"
)

// mapError converts minio-go errors to the shared taxonomy. Unrecognized
// codes keep the original error so unexpected failures propagate unchanged.
func mapError(op, bucket, key string, err error) error {
	wrapped := &s3client.ClientError{
		Op:      op,
		Backend: backendName,
		Bucket:  bucket,
		Key:     key,
		Err:     err,
	}

	resp := miniogo.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		wrapped.Err = s3client.ErrNotFound
	case "NoSuchBucket":
		wrapped.Err = s3client.ErrBucketNotFound
	case "AccessDenied":
		wrapped.Err = s3client.ErrAccessDenied
	case "InvalidAccessKeyId", "SignatureDoesNotMatch":
		wrapped.Err = s3client.ErrInvalidCredentials
	case "SlowDown":
		wrapped.Err = s3client.ErrThrottled
	}
	return wrapped
}
