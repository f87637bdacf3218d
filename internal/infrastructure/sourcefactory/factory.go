package sourcefactory

import (
	"fmt"
	"time"

	"pair_screener/internal/app/port"
	"pair_screener/internal/app/provider"
	"pair_screener/internal/app/service"
	dex_client "pair_screener/internal/client"
	"pair_screener/internal/infrastructure/configloader"
	networkdefinition "pair_screener/internal/infrastructure/network/definition"
	"pair_screener/internal/infrastructure/tokenloader"

	"go.uber.org/zap"
)

// New builds the data source selected by cfg.Source.Kind. The network
// provider is nil for the mock source.
func New(cfg *configloader.Config, zapLogger *zap.Logger, appLogger port.Logger) (port.PairSource, port.NetworkDefinitionProvider, error) {
	switch cfg.Source.Kind {
	case configloader.SourceKindMock:
		appLogger.Info("Using mock pair source", "count", cfg.Source.Mock.Count, "failure_rate", cfg.Source.Mock.FailureRate)
		return service.NewMockPairSource(service.MockPairSourceOptions{
			Count:       cfg.Source.Mock.Count,
			FailureRate: cfg.Source.Mock.FailureRate,
			Latency:     time.Duration(cfg.Source.Mock.LatencyMillis) * time.Millisecond,
			MaxAge:      time.Duration(cfg.Source.Mock.MaxAgeHours) * time.Hour,
			Seed:        cfg.Source.Mock.Seed,
		}), nil, nil

	case configloader.SourceKindDEXScreener:
		netDefProvider := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.TokensDir)
		tokenProvider := provider.NewTokenProvider(tokenloader.NewTokenLoader(cfg.TokensDir, appLogger), appLogger)

		dexClient := dex_client.NewDEXScreenerClient(
			cfg.DEXScreener.BaseURL,
			time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
			zapLogger.Named("DEXScreenerAPIClient"),
			cfg.PairSource.MaxTokensPerBatchRequest,
			cfg.DEXScreener.RequestsPerMinute,
		)
		appLogger.Info("Using DEXScreener pair source", "base_url", cfg.DEXScreener.BaseURL, "tokens_dir", cfg.TokensDir)

		source := service.NewDexPairSource(tokenProvider, netDefProvider, dexClient, appLogger, service.DexPairSourceOptions{
			MaxTokensPerBatch: cfg.PairSource.MaxTokensPerBatchRequest,
			MaxConcurrency:    cfg.Performance.MaxConcurrentRoutines,
			CacheTTL:          time.Duration(cfg.PairSource.CacheTTLSeconds) * time.Second,
		})
		return source, netDefProvider, nil

	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
