package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyscan/internal/config"
)

func wireConfig(mutate func(*config.Config)) *config.Config {
	cfg := config.Defaults()
	if mutate != nil {
		mutate(&cfg)
	}
	return &cfg
}

func wire(t *testing.T, cfg *config.Config) *Dependencies {
	t.Helper()
	deps, cleanup, err := Wire(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return deps
}

// bucketServer answers every request with status, standing in for HeadBucket.
func bucketServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func s3Section(endpoint string, useSSL bool) func(*config.Config) {
	return func(c *config.Config) {
		c.S3.Enabled = true
		c.S3.Endpoint = endpoint
		c.S3.UseSSL = useSSL
		c.S3.Bucket = "reports-bucket"
		c.S3.AccessKey = "test-key"
		c.S3.SecretKey = "test-secret"
		c.S3.ForcePathStyle = true
	}
}

func TestWireDefaultsLeaveOptionalSinksOff(t *testing.T) {
	deps := wire(t, wireConfig(nil))

	assert.NotNil(t, deps.Markets)
	assert.NotNil(t, deps.Tags)
	assert.Nil(t, deps.TagCache)
	assert.Nil(t, deps.ReportStore)
	assert.Nil(t, deps.Uploader)
	assert.Nil(t, deps.Notifier)
}

func TestWireRedisTagCache(t *testing.T) {
	mr := miniredis.RunT(t)

	deps := wire(t, wireConfig(func(c *config.Config) {
		c.Redis.Enabled = true
		c.Redis.Addr = mr.Addr()
	}))
	assert.NotNil(t, deps.TagCache)
}

func TestWireRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	deps := wire(t, wireConfig(func(c *config.Config) {
		c.Redis.Enabled = true
		c.Redis.Addr = addr
		c.Redis.MaxRetries = -1
	}))
	assert.Nil(t, deps.TagCache, "scan runs without the cache")
}

func TestWireS3HealthyBucket(t *testing.T) {
	srv := bucketServer(t, http.StatusOK)

	deps := wire(t, wireConfig(s3Section(srv.URL, false)))
	assert.NotNil(t, deps.Uploader)
}

func TestWireS3EndpointWithoutScheme(t *testing.T) {
	srv := bucketServer(t, http.StatusOK)
	host := strings.TrimPrefix(srv.URL, "http://")

	deps := wire(t, wireConfig(s3Section(host, false)))
	assert.NotNil(t, deps.Uploader, "use_ssl = false reaches a plain http endpoint")
}

func TestWireS3UnhealthyBucket(t *testing.T) {
	srv := bucketServer(t, http.StatusForbidden)

	deps := wire(t, wireConfig(s3Section(srv.URL, false)))
	assert.Nil(t, deps.Uploader)
}

func TestWireNotifierNeedsCompleteChannel(t *testing.T) {
	deps := wire(t, wireConfig(func(c *config.Config) {
		c.Notify.TelegramToken = "tok"
	}))
	assert.Nil(t, deps.Notifier, "telegram without chat id is not a channel")

	deps = wire(t, wireConfig(func(c *config.Config) {
		c.Notify.DiscordWebhookURL = "https://discord.example/api/webhooks/1/x"
	}))
	assert.NotNil(t, deps.Notifier)
}
