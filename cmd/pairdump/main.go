// Command pairdump fetches the pair feed once, applies the given filter and
// sort, and prints the resulting view as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"pair_screener/internal/app/service"
	"pair_screener/internal/domain/entity"
	"pair_screener/internal/infrastructure/configloader"
	"pair_screener/internal/infrastructure/sourcefactory"
	"pair_screener/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	configPath := flag.String("config", "", "Path to config.yml (defaults to CONFIG_PATH or config/config.yml)")
	sourceKind := flag.String("source", "", "Override source kind: mock or dexscreener")
	minPool := flag.Float64("min-pool", -1, "Minimum pool size in USD (negative disables)")
	maxAge := flag.Duration("max-age", 0, "Maximum pair age, e.g. 24h (zero disables)")
	paired := flag.String("paired", "", "Exact paired asset symbol, e.g. WETH")
	verified := flag.String("verified", "", "Verification filter: true or false (empty disables)")
	sortKey := flag.String("sort", string(entity.DefaultSortKey), "Sort key: newest, poolSize, priceChange, volume")
	timeout := flag.Duration("timeout", 30*time.Second, "Fetch timeout")
	flag.Parse()

	if err := run(*configPath, *sourceKind, *minPool, *maxAge, *paired, *verified, *sortKey, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "pairdump: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, sourceKind string, minPool float64, maxAge time.Duration, paired, verified, sortKey string, timeout time.Duration) error {
	var (
		cfg *configloader.Config
		err error
	)
	if configPath != "" {
		cfg, err = configloader.Load(configPath)
	} else {
		cfg, err = configloader.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if sourceKind != "" {
		cfg.Source.Kind = sourceKind
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	key, err := entity.ParseSortKey(sortKey)
	if err != nil {
		return err
	}
	filter, err := buildFilter(minPool, maxAge, paired, verified)
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout stays valid JSON.
	zapLogger, err := logger.NewZapLogger(cfg.Logging.Level, "console")
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.InitSlog(zapLogger, cfg.Logging.Level)
	appLogger := logger.NewSlogAdapter()

	source, _, err := sourcefactory.New(cfg, zapLogger, appLogger)
	if err != nil {
		return err
	}

	feed := service.NewPairFeedService(source, appLogger, service.PairFeedOptions{
		SourceName:     cfg.Source.Kind,
		DefaultSort:    key,
		MaxRetries:     cfg.Feed.MaxRetries,
		RetryBaseDelay: time.Duration(cfg.Feed.RetryBaseDelayMillis) * time.Millisecond,
		RetryMaxDelay:  time.Duration(cfg.Feed.RetryMaxDelayMillis) * time.Millisecond,
	})
	feed.SetFilter(filter)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	feed.Fetch(ctx)

	out, err := json.MarshalIndent(feed.View(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	fmt.Println(string(out))

	if lastErr := feed.LastError(); lastErr != nil {
		return lastErr
	}
	return nil
}

func buildFilter(minPool float64, maxAge time.Duration, paired, verified string) (entity.FilterSpec, error) {
	var spec entity.FilterSpec
	if minPool >= 0 {
		spec.MinPoolSize = &minPool
	}
	if maxAge > 0 {
		spec.MaxAge = &maxAge
	}
	if paired != "" {
		spec.PairedAsset = &paired
	}
	if verified != "" {
		v, err := strconv.ParseBool(verified)
		if err != nil {
			return spec, fmt.Errorf("invalid -verified value %q: %w", verified, err)
		}
		spec.Verified = &v
	}
	return spec, nil
}
