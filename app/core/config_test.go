package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/pkg/types"
)

func TestSetupConfigFromEnv(t *testing.T) {
	t.Setenv("AGENTIC_SOCIAL_SERVICE_ADDRESS", "localhost:11111")
	t.Setenv("AGENTIC_SOCIAL_HISTORY_DRIVER", "memory")
	t.Setenv("AGENTIC_SOCIAL_HISTORY_MAX_ENTRIES", "50")
	t.Setenv("AGENTIC_SOCIAL_SHARING_TRANSFORMS", "utm,hashtags")
	t.Setenv("AGENTIC_SOCIAL_SUMMARY_SEED", "42")

	cfg := LoadBaseConfigFromENV()

	assert.Equal(t, "localhost:11111", cfg.Addr)
	assert.Equal(t, HISTORY_DRIVER_MEMORY, cfg.History.Driver)
	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, []string{"utm", "hashtags"}, cfg.Sharing.Transforms)
	assert.Equal(t, uint64(42), cfg.Summary.Seed)
	assert.Equal(t, types.SUMMARY_LENGTH_LINKEDIN, cfg.Summary.LinkedInLength)
}

func TestMustLoadBaseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr = ":8080"

[database]
driver = "postgres"
dsn = "postgres://localhost/agentic"

[history]
driver = "redis"
max_entries = 0

[redis]
addr = "localhost:6379"

[content]
driver = "file"
path = "posts.yaml"

[workflow]
run_ttl = 60

[limit]
summary_per_minute = 5
`), 0o600))

	cfg := MustLoadBaseConfig(path)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres", cfg.Database.DriverName())
	assert.Equal(t, "postgres://localhost/agentic", cfg.Database.FormatDSN())
	assert.Equal(t, types.SHARE_LOG_MAX_ENTRIES, cfg.History.MaxEntries)
	assert.Equal(t, uint64(types.DEFAULT_PAGE_SIZE), cfg.History.PageSize)
	assert.Equal(t, types.LINKEDIN_FEED_URL, cfg.Workflow.LinkedInFeedURL)
	assert.Equal(t, int64(60), int64(cfg.Workflow.RunTTLDuration().Seconds()))
	assert.Equal(t, RateLimitConfig{SummaryPerMinute: 5}, cfg.Limit)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorContains(t, cfg.Validate(), "base_url")

	cfg.Content.BaseURL = "https://blog.example.com"
	assert.NoError(t, cfg.Validate())

	cfg.History.Driver = HISTORY_DRIVER_REDIS
	assert.ErrorContains(t, cfg.Validate(), "redis.addr")

	cfg.History.Driver = "nope"
	assert.Error(t, cfg.Validate())
}

func TestSlogLevel(t *testing.T) {
	l := Log{Level: "WARN"}
	assert.Equal(t, "WARN", l.SlogLevel().String())
}
