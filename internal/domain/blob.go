package domain

import (
	"context"
	"time"
)

// ReportArchive copies a finished report file to object storage and returns
// the key it was stored under.
type ReportArchive interface {
	UploadReport(ctx context.Context, localPath, contentType string, startedAt time.Time) (string, error)
}
