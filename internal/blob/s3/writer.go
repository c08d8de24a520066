package s3blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// minPartSize is the minimum allowed part size for S3 multipart uploads (5 MiB).
const minPartSize int64 = 5 * 1024 * 1024

// Writer uploads report files to an S3-compatible bucket.
type Writer struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewWriter creates a Writer for the client's bucket and prefix.
func NewWriter(c *Client) *Writer {
	return &Writer{
		client: c.s3,
		bucket: c.bucket,
		prefix: c.prefix,
	}
}

// Put uploads data with a single PutObject request.
func (w *Writer) Put(ctx context.Context, key string, data io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	}

	if _, err := w.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3blob: put object %s: %w", key, err)
	}
	return nil
}

// PutMultipart uploads data through the multipart upload manager. partSize
// is clamped to the 5 MiB S3 minimum.
func (w *Writer) PutMultipart(ctx context.Context, key string, data io.Reader, contentType string, partSize int64) error {
	if partSize < minPartSize {
		partSize = minPartSize
	}

	uploader := manager.NewUploader(w.client, func(u *manager.Uploader) {
		u.PartSize = partSize
	})

	input := &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	}

	if _, err := uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("s3blob: multipart upload %s: %w", key, err)
	}
	return nil
}

// ReportKey builds the object key for a report file:
// {prefix}/{yyyy}/{mm}/{dd}/{file name}.
func ReportKey(prefix string, startedAt time.Time, localPath string) string {
	return path.Join(prefix, startedAt.UTC().Format("2006/01/02"), filepath.Base(localPath))
}

// UploadReport copies the file at localPath to the bucket and returns its key.
// Files at or above the multipart threshold go through PutMultipart.
func (w *Writer) UploadReport(ctx context.Context, localPath, contentType string, startedAt time.Time) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3blob: open report: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("s3blob: stat report: %w", err)
	}

	key := ReportKey(w.prefix, startedAt, localPath)
	if info.Size() >= minPartSize {
		err = w.PutMultipart(ctx, key, f, contentType, minPartSize)
	} else {
		err = w.Put(ctx, key, f, contentType)
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

// Compile-time interface check.
var _ domain.ReportArchive = (*Writer)(nil)
