package scanner

import (
	"context"
	"log/slog"
)

// Observer receives progress and warnings from the pipeline stages. Stage
// logic never logs directly.
type Observer interface {
	// StageDone reports how many items a stage kept and dropped.
	StageDone(stage string, kept, dropped int)
	// Warn reports a recoverable problem with a single listing.
	Warn(stage, listingID, msg string)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) StageDone(string, int, int)  {}
func (NopObserver) Warn(string, string, string) {}

// LogObserver forwards pipeline events to a slog.Logger.
type LogObserver struct {
	ctx    context.Context
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver. ctx is attached to every log call.
func NewLogObserver(ctx context.Context, logger *slog.Logger) *LogObserver {
	return &LogObserver{
		ctx:    ctx,
		logger: logger.With(slog.String("component", "scanner")),
	}
}

func (o *LogObserver) StageDone(stage string, kept, dropped int) {
	o.logger.InfoContext(o.ctx, "stage complete",
		slog.String("stage", stage),
		slog.Int("kept", kept),
		slog.Int("dropped", dropped),
	)
}

func (o *LogObserver) Warn(stage, listingID, msg string) {
	o.logger.WarnContext(o.ctx, msg,
		slog.String("stage", stage),
		slog.String("market_id", listingID),
	)
}

// Stage names passed to Observer.
const (
	StageTags     = "tag_exclusion"
	StageKeywords = "keyword_exclusion"
	StageClassify = "classify"
	StageFlatten  = "flatten"
	StageWindow   = "time_window"
)
