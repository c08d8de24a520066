// Package config defines the top-level configuration for the market scanner
// and provides validation helpers.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by POLYSCAN_* environment variables and
// command-line flags.
type Config struct {
	Polymarket PolymarketConfig `toml:"polymarket"`
	Scan       ScanConfig       `toml:"scan"`
	Output     OutputConfig     `toml:"output"`
	Supabase   SupabaseConfig   `toml:"supabase"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Notify     NotifyConfig     `toml:"notify"`
	LogLevel   string           `toml:"log_level"`
}

// PolymarketConfig holds the Gamma API endpoint and paging parameters.
type PolymarketConfig struct {
	GammaHost   string   `toml:"gamma_host"`
	IncludeTags bool     `toml:"include_tags"`
	PageSize    int      `toml:"page_size"`
	MaxMarkets  int      `toml:"max_markets"` // 0 = unlimited
	Timeout     duration `toml:"timeout"`
}

// ScanConfig holds the filter parameters of a scan.
type ScanConfig struct {
	Threshold       float64  `toml:"threshold"`
	WindowHours     float64  `toml:"window_hours"`
	ExcludeTags     []string `toml:"exclude_tags"`
	ExcludeKeywords []string `toml:"exclude_keywords"` // nil = built-in list, empty = none
	URLTemplate     string   `toml:"url_template"`
}

// OutputConfig controls where the report workbook is written.
type OutputConfig struct {
	Dir        string `toml:"dir"`
	FilePrefix string `toml:"file_prefix"`
	SheetName  string `toml:"sheet_name"`
}

// SupabaseConfig holds PostgreSQL / Supabase connection parameters for the
// run history sink.
type SupabaseConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters for the tag lookup cache.
type RedisConfig struct {
	Enabled    bool     `toml:"enabled"`
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	TagTTL     duration `toml:"tag_ttl"`
}

// S3Config holds S3-compatible object storage parameters for report archiving.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	Prefix         string `toml:"prefix"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"` // scheme for an endpoint given without one
	ForcePathStyle bool   `toml:"force_path_style"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string `toml:"telegram_token"`
	TelegramChatID    string `toml:"telegram_chat_id"`
	DiscordWebhookURL string `toml:"discord_webhook_url"`
	MaxRows           int    `toml:"max_rows"`
}

// Enabled reports whether at least one channel is configured.
func (n NotifyConfig) Enabled() bool {
	return (n.TelegramToken != "" && n.TelegramChatID != "") || n.DiscordWebhookURL != ""
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			GammaHost:   "https://gamma-api.polymarket.com",
			IncludeTags: true,
			PageSize:    100,
			MaxMarkets:  0,
			Timeout:     duration{30 * time.Second},
		},
		Scan: ScanConfig{
			Threshold:   0.95,
			WindowHours: 48,
			ExcludeTags: []string{"sports", "esports", "crypto"},
			URLTemplate: "https://polymarket.com/event/{slug}",
		},
		Output: OutputConfig{
			Dir:        ".",
			FilePrefix: "near_certain_markets",
			SheetName:  "Near Certain",
		},
		Supabase: SupabaseConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "postgres",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  4,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
			TagTTL:     duration{time.Hour},
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "polyscan-reports",
			Prefix:         "reports",
			ForcePathStyle: true,
		},
		Notify: NotifyConfig{
			MaxRows: 10,
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// SlogLevel maps LogLevel to a slog level, ignoring case. Unknown values
// give info; Validate rejects them.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(strings.TrimSpace(c.LogLevel))] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Polymarket
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.PageSize < 1 {
		errs = append(errs, "polymarket: page_size must be >= 1")
	}
	if c.Polymarket.MaxMarkets < 0 {
		errs = append(errs, "polymarket: max_markets must be >= 0")
	}
	if c.Polymarket.Timeout.Duration <= 0 {
		errs = append(errs, "polymarket: timeout must be > 0")
	}

	// Scan
	if c.Scan.Threshold <= 0.5 || c.Scan.Threshold > 1 {
		errs = append(errs, fmt.Sprintf("scan: threshold must be in (0.5, 1], got %g", c.Scan.Threshold))
	}
	if c.Scan.WindowHours <= 0 {
		errs = append(errs, fmt.Sprintf("scan: window_hours must be > 0, got %g", c.Scan.WindowHours))
	}
	if !strings.Contains(c.Scan.URLTemplate, "{slug}") {
		errs = append(errs, "scan: url_template must contain {slug}")
	}

	// Output
	if c.Output.Dir == "" {
		errs = append(errs, "output: dir must not be empty")
	}

	// Supabase
	if c.Supabase.Enabled {
		if strings.TrimSpace(c.Supabase.DSN) == "" {
			if c.Supabase.Host == "" {
				errs = append(errs, "supabase: host must not be empty (or set supabase.dsn)")
			}
			if c.Supabase.Port <= 0 || c.Supabase.Port > 65535 {
				errs = append(errs, fmt.Sprintf("supabase: port must be 1-65535, got %d", c.Supabase.Port))
			}
			if c.Supabase.Database == "" {
				errs = append(errs, "supabase: database must not be empty")
			}
		}
		if c.Supabase.PoolMaxConns < 1 {
			errs = append(errs, "supabase: pool_max_conns must be >= 1")
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
		if c.Redis.TagTTL.Duration <= 0 {
			errs = append(errs, "redis: tag_ttl must be > 0")
		}
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			errs = append(errs, "s3: access_key and secret_key must be set together")
		}
	}

	// Notify
	if c.Notify.TelegramToken != "" && c.Notify.TelegramChatID == "" {
		errs = append(errs, "notify: telegram_chat_id is required when telegram_token is set")
	}
	if c.Notify.MaxRows < 0 {
		errs = append(errs, "notify: max_rows must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
