package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/polyscan/internal/domain"
	"github.com/alanyoungcy/polyscan/internal/export"
	"github.com/alanyoungcy/polyscan/internal/notify"
	"github.com/alanyoungcy/polyscan/internal/pipeline"
	"github.com/alanyoungcy/polyscan/internal/scanner"
)

// Report is the outcome of one scan.
type Report struct {
	RunID     string
	StartedAt time.Time
	Fetched   int
	Qualified int
	Records   []domain.ReportRecord
	FilePath  string
	Result    export.Result
}

// Scan fetches the exclusion tags and every listing, runs the scanner
// pipeline, writes the workbook and hands the result to the optional sinks.
// Only a cancelled context or an unwritable report file make it fail.
func (a *App) Scan(ctx context.Context, deps *Dependencies) (*Report, error) {
	rep := &Report{
		RunID:     uuid.NewString(),
		StartedAt: a.now(),
	}
	logger := a.logger.With(slog.String("run_id", rep.RunID))

	tags := pipeline.NewTagResolver(deps.Tags, deps.TagCache, logger).
		Resolve(ctx, a.cfg.Scan.ExcludeTags)

	listings, err := pipeline.NewMarketScraper(
		deps.Markets, a.cfg.Polymarket.PageSize, a.cfg.Polymarket.MaxMarkets, logger,
	).Run(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("app: fetch markets: %w", ctxErr)
		}
		logger.WarnContext(ctx, "continuing with partial market snapshot",
			slog.Int("fetched", len(listings)),
			slog.String("error", err.Error()),
		)
	}
	rep.Fetched = len(listings)

	// Unset means the built-in list; an explicit empty list turns the
	// keyword stage off.
	keywords := a.cfg.Scan.ExcludeKeywords
	if keywords == nil {
		keywords = scanner.DefaultKeywords
	}
	p := scanner.New(scanner.Options{
		Threshold:    a.cfg.Scan.Threshold,
		WindowHours:  a.cfg.Scan.WindowHours,
		Keywords:     keywords,
		ExcludedTags: tags,
		URLTemplate:  a.cfg.Scan.URLTemplate,
	}, scanner.NewLogObserver(ctx, logger))

	res := p.Run(listings, a.now())
	rep.Qualified = res.Qualified
	rep.Records = res.Records
	logSummary(ctx, logger, res)

	path, result, err := export.WriteReport(export.Options{
		Dir:        a.cfg.Output.Dir,
		FilePrefix: a.cfg.Output.FilePrefix,
		SheetName:  a.cfg.Output.SheetName,
	}, rep.StartedAt, res.Records)
	if err != nil {
		return nil, fmt.Errorf("app: write report: %w", err)
	}
	rep.FilePath = path
	rep.Result = result

	if result == export.ResultEmpty {
		logger.InfoContext(ctx, "no markets matched, no report written",
			slog.Float64("threshold", a.cfg.Scan.Threshold),
			slog.Float64("window_hours", a.cfg.Scan.WindowHours),
		)
	} else {
		logger.InfoContext(ctx, "report written",
			slog.String("path", path),
			slog.Int("rows", len(res.Records)),
		)
	}

	a.runSinks(ctx, logger, deps, rep)
	return rep, nil
}

// runSinks fans the report out to the configured sinks concurrently. A sink
// failure is logged and does not fail the run.
func (a *App) runSinks(ctx context.Context, logger *slog.Logger, deps *Dependencies, rep *Report) {
	var g errgroup.Group

	if deps.Uploader != nil && rep.Result == export.ResultWritten {
		g.Go(func() error {
			key, err := deps.Uploader.UploadReport(ctx, rep.FilePath, export.ContentType, rep.StartedAt)
			if err != nil {
				logger.ErrorContext(ctx, "report upload failed", slog.String("error", err.Error()))
				return nil
			}
			logger.InfoContext(ctx, "report uploaded", slog.String("key", key))
			return nil
		})
	}

	if deps.ReportStore != nil {
		g.Go(func() error {
			run := domain.ScanRun{
				ID:          rep.RunID,
				StartedAt:   rep.StartedAt,
				Fetched:     rep.Fetched,
				Qualified:   rep.Qualified,
				RowsWritten: len(rep.Records),
				FilePath:    rep.FilePath,
				Threshold:   a.cfg.Scan.Threshold,
				WindowHours: a.cfg.Scan.WindowHours,
			}
			if err := deps.ReportStore.SaveRun(ctx, run, rep.Records); err != nil {
				logger.ErrorContext(ctx, "saving run history failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	if deps.Notifier != nil && len(rep.Records) > 0 {
		g.Go(func() error {
			err := deps.Notifier.NotifyScan(ctx, notify.Summary{
				RunID:       rep.RunID,
				Fetched:     rep.Fetched,
				Qualified:   rep.Qualified,
				InWindow:    len(rep.Records),
				Threshold:   a.cfg.Scan.Threshold,
				WindowHours: a.cfg.Scan.WindowHours,
				FilePath:    rep.FilePath,
				Records:     rep.Records,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorContext(ctx, "notification failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	_ = g.Wait()
}

func logSummary(ctx context.Context, logger *slog.Logger, res *scanner.Result) {
	attrs := []any{
		slog.Int("fetched", res.Input),
		slog.Int("tag_excluded", len(res.TagExcluded)),
		slog.Int("keyword_excluded", len(res.KeywordExcluded)),
		slog.Int("qualified", res.Qualified),
		slog.Int("unqualified", len(res.Unqualified)),
		slog.Int("rows", len(res.Rows)),
		slog.Int("in_window", len(res.Window.In)),
	}
	if !res.Window.Earliest.IsZero() {
		attrs = append(attrs,
			slog.Time("earliest_end", res.Window.Earliest),
			slog.Time("latest_end", res.Window.Latest),
		)
	}
	logger.InfoContext(ctx, "scan summary", attrs...)
}
