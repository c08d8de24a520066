// Command polyscan scans Polymarket for near-certain markets that resolve
// soon and writes them to an .xlsx report. It loads configuration, applies
// command-line overrides, validates the result and runs one scan.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanyoungcy/polyscan/internal/app"
	"github.com/alanyoungcy/polyscan/internal/config"
	"github.com/alanyoungcy/polyscan/internal/export"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to configuration file")
	maxMarkets := flag.Int("max", 0, "stop after fetching this many markets (0 = all)")
	threshold := flag.Float64("threshold", 0, "minimum outcome price to count as near-certain")
	window := flag.Float64("window", 0, "only keep markets resolving within this many hours")
	outDir := flag.String("out", "", "directory for the report file")
	history := flag.Int("history", 0, "print the last N recorded runs and exit")
	flag.Parse()

	// Setup structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Flags win over file and environment, but only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max":
			cfg.Polymarket.MaxMarkets = *maxMarkets
		case "threshold":
			cfg.Scan.Threshold = *threshold
		case "window":
			cfg.Scan.WindowHours = *window
		case "out":
			cfg.Output.Dir = *outDir
		}
	})

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redacted := config.RedactedConfig(cfg)
	logger.Debug("effective configuration", slog.Any("config", redacted))
	logger.Info("polyscan starting",
		slog.String("config", *configPath),
		slog.Float64("threshold", cfg.Scan.Threshold),
		slog.Float64("window_hours", cfg.Scan.WindowHours),
		slog.Int("max_markets", cfg.Polymarket.MaxMarkets),
	)

	// Setup signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)

	if *history > 0 {
		runs, err := application.History(ctx, *history)
		application.Close()
		if err != nil {
			logger.Error("listing run history failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  fetched=%d qualified=%d rows=%d  %s\n",
				r.StartedAt.Format("2006-01-02 15:04:05"), r.ID, r.Fetched, r.Qualified, r.RowsWritten, r.FilePath)
		}
		return
	}

	rep, err := application.Run(ctx)
	application.Close()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("scan interrupted")
			os.Exit(130)
		}
		logger.Error("scan failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	if rep.Result == export.ResultEmpty {
		fmt.Println("No markets matched the criteria; no report written.")
		return
	}
	fmt.Printf("Wrote %d markets to %s\n", len(rep.Records), rep.FilePath)
}
