package aws

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/3leaps/s3path/pkg/s3client"
)

// Per-part throughput assumed when sizing upload concurrency from the
// configured throughput target, in Gbps. S3 sustains roughly this much on a
// single connection.
const perConnGbps = 10.0

// PutObject opens a streaming write to bucket/key.
//
// Bytes written are fed through a pipe into a multipart upload running in a
// background goroutine, using the configured part size. The object becomes
// visible only after Close returns nil.
func (c *Client) PutObject(ctx context.Context, bucket, key string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()

	uploader := manager.NewUploader(c.api, func(u *manager.Uploader) {
		u.PartSize = c.transfer.PartSize
		u.Concurrency = uploadConcurrency(c.transfer.ThroughputTargetGbps)
	})

	w := &objectWriter{pw: pw}
	w.done.Add(1)
	go func() {
		defer w.done.Done()
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   pr,
		})
		if err != nil {
			err = c.wrapError("PutObject", bucket, key, err)
			// Unblock any in-flight Write.
			_ = pr.CloseWithError(err)
		}
		w.setErr(err)
	}()
	return w, nil
}

// objectWriter is the io.WriteCloser returned by PutObject. Close flushes the
// pipe and waits for the upload to finish, returning its error.
type objectWriter struct {
	pw   *io.PipeWriter
	done sync.WaitGroup

	mu  sync.Mutex
	err error
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *objectWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	w.done.Wait()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *objectWriter) setErr(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}

// uploadConcurrency derives the multipart concurrency from the throughput
// target, clamped to a sane range.
func uploadConcurrency(targetGbps float64) int {
	if targetGbps <= 0 {
		targetGbps = s3client.DefaultThroughputTargetGbps
	}
	n := int(math.Ceil(targetGbps / perConnGbps))
	if n < 1 {
		n = 1
	}
	if n > 64 {
		n = 64
	}
	return n
}
