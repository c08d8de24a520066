package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/alanyoungcy/polyscan/internal/blob/s3"
	"github.com/alanyoungcy/polyscan/internal/cache/redis"
	"github.com/alanyoungcy/polyscan/internal/config"
	"github.com/alanyoungcy/polyscan/internal/domain"
	"github.com/alanyoungcy/polyscan/internal/notify"
	"github.com/alanyoungcy/polyscan/internal/pipeline"
	"github.com/alanyoungcy/polyscan/internal/platform/polymarket"
	"github.com/alanyoungcy/polyscan/internal/store/postgres"
)

// ScanNotifier delivers a run summary to chat channels.
type ScanNotifier interface {
	NotifyScan(ctx context.Context, s notify.Summary) error
}

// Dependencies bundles everything a scan needs. Markets and Tags are
// required; the rest are nil when the matching section is disabled.
type Dependencies struct {
	Markets pipeline.MarketFetcher
	Tags    pipeline.TagLookup

	TagCache    domain.TagCache
	ReportStore domain.ReportStore
	Uploader    domain.ReportArchive
	Notifier    ScanNotifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources. Optional backends that fail to
// connect are logged and left out; the scan runs without them.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	gamma := polymarket.NewGammaClient(polymarket.GammaConfig{
		BaseURL:     cfg.Polymarket.GammaHost,
		Timeout:     cfg.Polymarket.Timeout.Duration,
		IncludeTags: cfg.Polymarket.IncludeTags,
	})
	deps := &Dependencies{Markets: gamma, Tags: gamma}

	// --- Redis tag cache ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			logger.WarnContext(ctx, "redis unavailable, tag lookups will not be cached",
				slog.String("error", err.Error()),
			)
		} else {
			closers = append(closers, func() { _ = redisClient.Close() })
			deps.TagCache = redis.NewTagCache(redisClient, cfg.Redis.TagTTL.Duration)
		}
	}

	// --- PostgreSQL run history ---
	if cfg.Supabase.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Supabase.DSN,
			Host:     cfg.Supabase.Host,
			Port:     cfg.Supabase.Port,
			Database: cfg.Supabase.Database,
			User:     cfg.Supabase.User,
			Password: cfg.Supabase.Password,
			SSLMode:  cfg.Supabase.SSLMode,
			MaxConns: cfg.Supabase.PoolMaxConns,
		})
		if err != nil {
			logger.WarnContext(ctx, "postgres unavailable, run history disabled",
				slog.String("error", err.Error()),
			)
		} else {
			closers = append(closers, pgClient.Close)
			if cfg.Supabase.RunMigrations {
				if err := pgClient.RunMigrations(ctx); err != nil {
					cleanup()
					return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
				}
			}
			deps.ReportStore = postgres.NewReportStore(pgClient.Pool())
		}
	}

	// --- S3 report archive ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			Prefix:         cfg.S3.Prefix,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		if err := s3Client.Health(ctx); err != nil {
			logger.WarnContext(ctx, "s3 unavailable, reports will not be archived",
				slog.String("error", err.Error()),
			)
		} else {
			logger.InfoContext(ctx, "s3 report archive enabled",
				slog.String("bucket", s3Client.Bucket()),
			)
			deps.Uploader = s3blob.NewWriter(s3Client)
		}
	}

	// --- Notifications ---
	if cfg.Notify.Enabled() {
		var senders []notify.Sender
		if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
			senders = append(senders, notify.NewTelegramSender(
				cfg.Notify.TelegramToken,
				cfg.Notify.TelegramChatID,
			))
		}
		if cfg.Notify.DiscordWebhookURL != "" {
			senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
		}
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.MaxRows, logger)
	}

	return deps, cleanup, nil
}
