package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultPath is the config file read when no -config flag is given.
const DefaultPath = "config.toml"

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POLYSCAN_* environment variable overrides, and
// returns the final Config. A missing file at DefaultPath is not an error.
// The returned Config has NOT been validated; the caller should invoke
// Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = DefaultPath
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !(path == DefaultPath && errors.Is(err, fs.ErrNotExist)) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POLYSCAN_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "POLYSCAN_POLYMARKET_GAMMA_HOST")
	setBool(&cfg.Polymarket.IncludeTags, "POLYSCAN_POLYMARKET_INCLUDE_TAGS")
	setInt(&cfg.Polymarket.PageSize, "POLYSCAN_POLYMARKET_PAGE_SIZE")
	setInt(&cfg.Polymarket.MaxMarkets, "POLYSCAN_POLYMARKET_MAX_MARKETS")
	setDuration(&cfg.Polymarket.Timeout, "POLYSCAN_POLYMARKET_TIMEOUT")

	// ── Scan ──
	setFloat64(&cfg.Scan.Threshold, "POLYSCAN_SCAN_THRESHOLD")
	setFloat64(&cfg.Scan.WindowHours, "POLYSCAN_SCAN_WINDOW_HOURS")
	setStringSlice(&cfg.Scan.ExcludeTags, "POLYSCAN_SCAN_EXCLUDE_TAGS")
	setStringSlice(&cfg.Scan.ExcludeKeywords, "POLYSCAN_SCAN_EXCLUDE_KEYWORDS")
	setStr(&cfg.Scan.URLTemplate, "POLYSCAN_SCAN_URL_TEMPLATE")

	// ── Output ──
	setStr(&cfg.Output.Dir, "POLYSCAN_OUTPUT_DIR")
	setStr(&cfg.Output.FilePrefix, "POLYSCAN_OUTPUT_FILE_PREFIX")
	setStr(&cfg.Output.SheetName, "POLYSCAN_OUTPUT_SHEET_NAME")

	// ── Supabase ──
	setBool(&cfg.Supabase.Enabled, "POLYSCAN_SUPABASE_ENABLED")
	setStr(&cfg.Supabase.DSN, "POLYSCAN_SUPABASE_DSN")
	setStr(&cfg.Supabase.Host, "POLYSCAN_SUPABASE_HOST")
	setInt(&cfg.Supabase.Port, "POLYSCAN_SUPABASE_PORT")
	setStr(&cfg.Supabase.Database, "POLYSCAN_SUPABASE_DATABASE")
	setStr(&cfg.Supabase.User, "POLYSCAN_SUPABASE_USER")
	setStr(&cfg.Supabase.Password, "POLYSCAN_SUPABASE_PASSWORD")
	setStr(&cfg.Supabase.SSLMode, "POLYSCAN_SUPABASE_SSL_MODE")
	setInt(&cfg.Supabase.PoolMaxConns, "POLYSCAN_SUPABASE_POOL_MAX_CONNS")
	setBool(&cfg.Supabase.RunMigrations, "POLYSCAN_SUPABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "POLYSCAN_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "POLYSCAN_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POLYSCAN_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POLYSCAN_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "POLYSCAN_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "POLYSCAN_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "POLYSCAN_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.TagTTL, "POLYSCAN_REDIS_TAG_TTL")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "POLYSCAN_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "POLYSCAN_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "POLYSCAN_S3_REGION")
	setStr(&cfg.S3.Bucket, "POLYSCAN_S3_BUCKET")
	setStr(&cfg.S3.Prefix, "POLYSCAN_S3_PREFIX")
	setStr(&cfg.S3.AccessKey, "POLYSCAN_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "POLYSCAN_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "POLYSCAN_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "POLYSCAN_S3_FORCE_PATH_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "POLYSCAN_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "POLYSCAN_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "POLYSCAN_NOTIFY_DISCORD_WEBHOOK_URL")
	setInt(&cfg.Notify.MaxRows, "POLYSCAN_NOTIFY_MAX_ROWS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "POLYSCAN_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
