package configloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: \"9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, SourceKindDEXScreener, cfg.Source.Kind)
	assert.Equal(t, "https://api.dexscreener.com", cfg.DEXScreener.BaseURL)
	assert.Equal(t, int64(10000), cfg.DEXScreener.RequestTimeoutMillis)
	assert.Equal(t, 30, cfg.PairSource.MaxTokensPerBatchRequest)
	assert.Equal(t, "newest", cfg.Feed.DefaultSort)
	assert.Equal(t, 0, cfg.Feed.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval())
	assert.Equal(t, "data/tokens", cfg.TokensDir)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileValuesWin(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
source:
  kind: mock
  mock:
    count: 7
    failureRate: 0.25
feed:
  refreshIntervalSeconds: 5
  defaultSort: volume
  maxRetries: 2
pairSource:
  cacheTTLSeconds: 20
`))
	require.NoError(t, err)

	assert.Equal(t, SourceKindMock, cfg.Source.Kind)
	assert.Equal(t, 7, cfg.Source.Mock.Count)
	assert.Equal(t, 0.25, cfg.Source.Mock.FailureRate)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval())
	assert.Equal(t, "volume", cfg.Feed.DefaultSort)
	assert.Equal(t, 2, cfg.Feed.MaxRetries)
	assert.Equal(t, 20, cfg.PairSource.CacheTTLSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCREENER_SOURCE_KIND", "mock")
	t.Setenv("SCREENER_FEED_DEFAULT_SORT", "poolSize")
	t.Setenv("SCREENER_MOCK_COUNT", "3")
	t.Setenv("SCREENER_WEBSOCKET_ENABLED", "true")
	t.Setenv("SCREENER_FEED_MAX_RETRIES", "not-a-number")

	cfg, err := Load(writeConfig(t, "source:\n  kind: dexscreener\nfeed:\n  maxRetries: 1\n"))
	require.NoError(t, err)

	assert.Equal(t, SourceKindMock, cfg.Source.Kind)
	assert.Equal(t, "poolSize", cfg.Feed.DefaultSort)
	assert.Equal(t, 3, cfg.Source.Mock.Count)
	assert.True(t, cfg.WebSocket.Enabled)
	assert.Equal(t, 1, cfg.Feed.MaxRetries)
}

func TestLoadFromEnv_UsesConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "server:\n  port: \"7000\"\n"))

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown source", func(c *Config) { c.Source.Kind = "kafka" }, "source.kind"},
		{"bad sort", func(c *Config) { c.Feed.DefaultSort = "marketCap" }, "feed.defaultSort"},
		{"negative refresh", func(c *Config) { c.Feed.RefreshIntervalSeconds = -1 }, "feed.refreshIntervalSeconds"},
		{"failure rate", func(c *Config) { c.Source.Mock.FailureRate = 1.5 }, "failureRate"},
		{"port", func(c *Config) { c.Server.Port = "http" }, "server.port"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, "{}\n"))
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
