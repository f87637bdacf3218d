package configloader

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pair_screener/internal/domain/entity"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when CONFIG_PATH is not set.
	DefaultConfigPath = "config/config.yml"

	envPrefix = "SCREENER_"
)

// Data source kinds.
const (
	SourceKindMock        = "mock"
	SourceKindDEXScreener = "dexscreener"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                   string   `yaml:"port"`
	ReadTimeoutSeconds     int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds    int      `yaml:"writeTimeoutSeconds"`
	ShutdownTimeoutSeconds int      `yaml:"shutdownTimeoutSeconds"`
	CORSAllowedOrigins     []string `yaml:"corsAllowedOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// MockSourceConfig tunes the randomized demo source.
type MockSourceConfig struct {
	Count         int     `yaml:"count"`
	FailureRate   float64 `yaml:"failureRate"`
	LatencyMillis int64   `yaml:"latencyMillis"`
	MaxAgeHours   int     `yaml:"maxAgeHours"`
	Seed          uint64  `yaml:"seed"`
}

// SourceConfig selects where pairs come from.
type SourceConfig struct {
	Kind string           `yaml:"kind"`
	Mock MockSourceConfig `yaml:"mock"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RequestsPerMinute    int    `yaml:"requestsPerMinute"`
}

// PairSourceConfig holds configuration for the DEXScreener pair source.
type PairSourceConfig struct {
	MaxTokensPerBatchRequest int `yaml:"maxTokensPerBatchRequest"`
	CacheTTLSeconds          int `yaml:"cacheTTLSeconds"`
}

// FeedConfig holds configuration for the pair feed aggregator.
type FeedConfig struct {
	RefreshIntervalSeconds int    `yaml:"refreshIntervalSeconds"`
	DefaultSort            string `yaml:"defaultSort"`
	MaxRetries             int    `yaml:"maxRetries"`
	RetryBaseDelayMillis   int64  `yaml:"retryBaseDelayMillis"`
	RetryMaxDelayMillis    int64  `yaml:"retryMaxDelayMillis"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SpecPath string `yaml:"specPath"`
}

// WebSocketConfig holds configuration for the feed push channel.
type WebSocketConfig struct {
	Enabled             bool `yaml:"enabled"`
	SendBufferSize      int  `yaml:"sendBufferSize"`
	WriteTimeoutSeconds int  `yaml:"writeTimeoutSeconds"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Source      SourceConfig      `yaml:"source"`
	DEXScreener DEXScreenerConfig `yaml:"dexScreener"`
	PairSource  PairSourceConfig  `yaml:"pairSource"`
	Feed        FeedConfig        `yaml:"feed"`
	Performance PerformanceConfig `yaml:"performance"`
	Swagger     SwaggerConfig     `yaml:"swagger"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	TokensDir   string            `yaml:"tokensDir"`
}

// LoadFromEnv loads .env if present, then reads the file named by CONFIG_PATH
// (or DefaultConfigPath).
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return Load(path)
}

// Load reads the YAML configuration file from the given path, fills defaults
// and applies SCREENER_* environment overrides. The result is not validated.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 15
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = 5
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceKindDEXScreener
		logrus.Infof("Source.Kind not set, defaulting to %s", cfg.Source.Kind)
	}
	if cfg.Source.Mock.Count <= 0 {
		cfg.Source.Mock.Count = 25
	}
	if cfg.Source.Mock.MaxAgeHours <= 0 {
		cfg.Source.Mock.MaxAgeHours = 72
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", cfg.DEXScreener.BaseURL)
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
		logrus.Infof("DEXScreener.RequestTimeoutMillis not set, defaulting to %d ms", cfg.DEXScreener.RequestTimeoutMillis)
	}
	if cfg.DEXScreener.RequestsPerMinute == 0 {
		// DEXScreener allows 300 requests per minute on the tokens endpoint.
		cfg.DEXScreener.RequestsPerMinute = 300
	}

	if cfg.PairSource.MaxTokensPerBatchRequest == 0 {
		cfg.PairSource.MaxTokensPerBatchRequest = 30
		logrus.Infof("PairSource.MaxTokensPerBatchRequest not set, defaulting to %d", cfg.PairSource.MaxTokensPerBatchRequest)
	}

	if cfg.Feed.RefreshIntervalSeconds == 0 {
		cfg.Feed.RefreshIntervalSeconds = 30
		logrus.Infof("Feed.RefreshIntervalSeconds not set, defaulting to %d", cfg.Feed.RefreshIntervalSeconds)
	}
	if cfg.Feed.DefaultSort == "" {
		cfg.Feed.DefaultSort = string(entity.DefaultSortKey)
	}
	if cfg.Feed.RetryBaseDelayMillis <= 0 {
		cfg.Feed.RetryBaseDelayMillis = 1000
	}
	if cfg.Feed.RetryMaxDelayMillis <= 0 {
		cfg.Feed.RetryMaxDelayMillis = 30000
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
	}

	if cfg.Swagger.SpecPath == "" {
		cfg.Swagger.SpecPath = "./docs/swagger.yaml"
	}

	if cfg.WebSocket.SendBufferSize <= 0 {
		cfg.WebSocket.SendBufferSize = 16
	}
	if cfg.WebSocket.WriteTimeoutSeconds <= 0 {
		cfg.WebSocket.WriteTimeoutSeconds = 10
	}

	if cfg.TokensDir == "" {
		cfg.TokensDir = "data/tokens"
	}
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Server.Port, "SERVER_PORT")
	setStr(&cfg.Logging.Level, "LOG_LEVEL")
	setStr(&cfg.Logging.Format, "LOG_FORMAT")

	setStr(&cfg.Source.Kind, "SOURCE_KIND")
	setInt(&cfg.Source.Mock.Count, "MOCK_COUNT")
	setFloat64(&cfg.Source.Mock.FailureRate, "MOCK_FAILURE_RATE")

	setStr(&cfg.DEXScreener.BaseURL, "DEXSCREENER_BASE_URL")
	setInt(&cfg.DEXScreener.RequestsPerMinute, "DEXSCREENER_REQUESTS_PER_MINUTE")

	setInt(&cfg.Feed.RefreshIntervalSeconds, "FEED_REFRESH_INTERVAL_SECONDS")
	setStr(&cfg.Feed.DefaultSort, "FEED_DEFAULT_SORT")
	setInt(&cfg.Feed.MaxRetries, "FEED_MAX_RETRIES")

	setBool(&cfg.Swagger.Enabled, "SWAGGER_ENABLED")
	setBool(&cfg.WebSocket.Enabled, "WEBSOCKET_ENABLED")
	setStr(&cfg.TokensDir, "TOKENS_DIR")
}

// Validate reports configuration values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceKindMock, SourceKindDEXScreener:
	default:
		errs = append(errs, fmt.Errorf("source.kind: unknown kind %q (want %s or %s)", c.Source.Kind, SourceKindMock, SourceKindDEXScreener))
	}
	if c.Source.Mock.FailureRate < 0 || c.Source.Mock.FailureRate > 1 {
		errs = append(errs, fmt.Errorf("source.mock.failureRate: %v is outside [0,1]", c.Source.Mock.FailureRate))
	}
	if _, err := entity.ParseSortKey(c.Feed.DefaultSort); err != nil {
		errs = append(errs, fmt.Errorf("feed.defaultSort: %w", err))
	}
	if c.Feed.RefreshIntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("feed.refreshIntervalSeconds: must be positive, got %d", c.Feed.RefreshIntervalSeconds))
	}
	if c.Feed.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("feed.maxRetries: must not be negative, got %d", c.Feed.MaxRetries))
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		errs = append(errs, fmt.Errorf("server.port: %q is not a number", c.Server.Port))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// RefreshInterval returns the auto refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Feed.RefreshIntervalSeconds) * time.Second
}

func setStr(dst *string, key string) {
	if v := os.Getenv(envPrefix + key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		} else {
			logrus.Warnf("Ignoring %s%s=%q: not an integer", envPrefix, key, v)
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(envPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		} else {
			logrus.Warnf("Ignoring %s%s=%q: not a number", envPrefix, key, v)
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(envPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		} else {
			logrus.Warnf("Ignoring %s%s=%q: not a boolean", envPrefix, key, v)
		}
	}
}
