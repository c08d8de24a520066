package domain

import (
	"context"
	"time"
)

// ScanRun summarises one scanner execution.
type ScanRun struct {
	ID          string
	StartedAt   time.Time
	Fetched     int
	Qualified   int
	RowsWritten int
	FilePath    string
	Threshold   float64
	WindowHours float64
}

// ReportStore records scan runs and the rows they exported.
type ReportStore interface {
	SaveRun(ctx context.Context, run ScanRun, records []ReportRecord) error
	ListRuns(ctx context.Context, limit int) ([]ScanRun, error)
}
