// Package app provides the top-level application lifecycle for the market
// scanner. It wires together the Gamma client, the optional cache, store,
// blob and notification dependencies, and runs one scan.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/polyscan/internal/config"
	"github.com/alanyoungcy/polyscan/internal/domain"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run wires all dependencies and performs one scan. Cleanup happens in Close.
func (a *App) Run(ctx context.Context) (*Report, error) {
	a.logger.InfoContext(ctx, "starting scan",
		slog.String("gamma_host", a.cfg.Polymarket.GammaHost),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	return a.Scan(ctx, deps)
}

// History returns the most recent recorded runs, newest first. It needs the
// [supabase] section enabled.
func (a *App) History(ctx context.Context, limit int) ([]domain.ScanRun, error) {
	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	if deps.ReportStore == nil {
		return nil, fmt.Errorf("app: run history needs a reachable [supabase] database")
	}
	return deps.ReportStore.ListRuns(ctx, limit)
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
