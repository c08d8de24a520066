package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// ReportStore implements domain.ReportStore using PostgreSQL.
type ReportStore struct {
	pool *pgxpool.Pool
}

// NewReportStore creates a new ReportStore backed by the given connection pool.
func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

const insertRun = `
	INSERT INTO scan_runs (
		id, started_at, fetched, qualified, rows_written,
		file_path, threshold, window_hours
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const insertResult = `
	INSERT INTO scan_results (
		run_id, position, event_title, question, outcome,
		yes_price, no_price, certainty_side, category, subcategory,
		volume, liquidity, resolve_time, hours_remaining, market_url
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15
	)`

// SaveRun stores the run row and all of its records in one transaction.
func (s *ReportStore) SaveRun(ctx context.Context, run domain.ScanRun, records []domain.ReportRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin save run %s: %w", run.ID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, insertRun,
		run.ID, run.StartedAt, run.Fetched, run.Qualified, run.RowsWritten,
		run.FilePath, run.Threshold, run.WindowHours,
	); err != nil {
		return fmt.Errorf("postgres: insert run %s: %w", run.ID, err)
	}

	if len(records) > 0 {
		batch := &pgx.Batch{}
		for i, r := range records {
			batch.Queue(insertResult,
				run.ID, i, r.EventTitle, r.Question, r.Outcome,
				r.YesPrice, r.NoPrice, r.CertaintySide, r.Category, r.Subcategory,
				r.Volume, r.Liquidity, r.ResolveTime, r.HoursRemaining, r.URL,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range records {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("postgres: insert result %d of run %s: %w", i, run.ID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("postgres: close result batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *ReportStore) ListRuns(ctx context.Context, limit int) ([]domain.ScanRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id::text, started_at, fetched, qualified, rows_written,
		       file_path, threshold, window_hours
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ScanRun
	for rows.Next() {
		var r domain.ScanRun
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.Fetched, &r.Qualified, &r.RowsWritten,
			&r.FilePath, &r.Threshold, &r.WindowHours,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate runs: %w", err)
	}
	return runs, nil
}

// Compile-time interface check.
var _ domain.ReportStore = (*ReportStore)(nil)
