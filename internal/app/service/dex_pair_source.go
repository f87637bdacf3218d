package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"pair_screener/internal/app/port"
	"pair_screener/internal/client"
	"pair_screener/internal/domain/entity"
	dex_types "pair_screener/internal/entity"
	"pair_screener/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxTokensPerBatch = 30
	defaultMaxConcurrency    = 5

	// Liquidity thresholds in USD for the derived risk level.
	highRiskLiquidityUSD   = 10_000
	mediumRiskLiquidityUSD = 100_000
)

// DexPairSourceOptions configures the DEXScreener-backed source.
type DexPairSourceOptions struct {
	MaxTokensPerBatch int
	MaxConcurrency    int
	// CacheTTL keeps batch responses around between fetch cycles. Zero disables caching.
	CacheTTL time.Duration
}

// dexPairSourceImpl implements port.PairSource over the DEXScreener tokens endpoint.
type dexPairSourceImpl struct {
	tokenProvider     port.TokenProvider
	networkProvider   port.NetworkDefinitionProvider
	dexscreenerClient client.DEXScreenerClient
	logger            port.Logger
	opts              DexPairSourceOptions
	batchCache        *cache.Cache
}

type batchJob struct {
	network   entity.NetworkDefinition
	addresses []string
}

// NewDexPairSource creates a port.PairSource listing every pair of the watched tokens.
func NewDexPairSource(
	tp port.TokenProvider,
	np port.NetworkDefinitionProvider,
	dsc client.DEXScreenerClient,
	l port.Logger,
	opts DexPairSourceOptions,
) port.PairSource {
	if opts.MaxTokensPerBatch <= 0 {
		opts.MaxTokensPerBatch = defaultMaxTokensPerBatch
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = defaultMaxConcurrency
	}
	s := &dexPairSourceImpl{
		tokenProvider:     tp,
		networkProvider:   np,
		dexscreenerClient: dsc,
		logger:            l,
		opts:              opts,
	}
	if opts.CacheTTL > 0 {
		s.batchCache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return s
}

// ListPairs implements port.PairSource. A single failing batch fails the whole listing.
func (s *dexPairSourceImpl) ListPairs(ctx context.Context) ([]entity.PairRecord, error) {
	activeNetworks := s.networkProvider.GetAllNetworkDefinitions()
	if len(activeNetworks) == 0 {
		s.logger.Warn("No active networks found by NetworkDefinitionProvider. Nothing to list.")
		return []entity.PairRecord{}, nil
	}

	tokensByChainID, err := s.tokenProvider.GetTokensByNetwork(activeNetworks)
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}

	// Verification flags of watched tokens, keyed by chain then lowercased address.
	verified := make(map[string]map[string]bool, len(tokensByChainID))
	var jobs []batchJob
	for _, netDef := range activeNetworks {
		chainID := netDef.DEXScreenerChainID
		if chainID == "" {
			s.logger.Warn("DEXScreenerChainID not defined for network, skipping", "network_identifier", netDef.Identifier)
			continue
		}
		tokens := tokensByChainID[chainID]
		if len(tokens) == 0 {
			s.logger.Debug("No watched tokens for network", "network_identifier", netDef.Identifier)
			continue
		}

		addresses := make([]string, 0, len(tokens))
		flags := make(map[string]bool, len(tokens))
		for _, token := range tokens {
			addresses = append(addresses, token.Address)
			flags[strings.ToLower(token.Address)] = token.Verified
		}
		verified[chainID] = flags

		for _, batch := range utils.BatchStrings(addresses, s.opts.MaxTokensPerBatch) {
			jobs = append(jobs, batchJob{network: netDef, addresses: batch})
		}
	}

	results := make([][]dex_types.PairData, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)
	for i, job := range jobs {
		g.Go(func() error {
			pairs, err := s.fetchBatch(gctx, job)
			if err != nil {
				return fmt.Errorf("chain %s: %w", job.network.DEXScreenerChainID, err)
			}
			results[i] = pairs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]entity.PairRecord, 0)
	seen := make(map[string]struct{})
	var skipped int
	for i, job := range jobs {
		chainID := job.network.DEXScreenerChainID
		for _, pd := range results[i] {
			rec, reason := toPairRecord(pd, verified[chainID][strings.ToLower(pd.BaseToken.Address)])
			if reason != "" {
				skipped++
				s.logger.Debug("Skipping pair", "chain", chainID, "pair", pd.PairAddress, "reason", reason)
				continue
			}
			if rec.ChainID == "" {
				rec.ChainID = chainID
			}
			if _, dup := seen[rec.Address]; dup {
				continue
			}
			seen[rec.Address] = struct{}{}
			records = append(records, rec)
		}
	}

	s.logger.Info("Listed pairs from DEXScreener",
		"batches", len(jobs),
		"pairs", len(records),
		"skipped", skipped)
	return records, nil
}

func (s *dexPairSourceImpl) fetchBatch(ctx context.Context, job batchJob) ([]dex_types.PairData, error) {
	cacheKey := job.network.DEXScreenerChainID + ":" + strings.Join(job.addresses, ",")
	if s.batchCache != nil {
		if cached, ok := s.batchCache.Get(cacheKey); ok {
			return cached.([]dex_types.PairData), nil
		}
	}

	pairs, err := s.dexscreenerClient.GetTokenPairsByAddresses(ctx, job.network.DEXScreenerChainID, job.addresses)
	if err != nil {
		s.logger.Error("Failed to get token pairs from DEXScreener",
			"dexScreenerID", job.network.DEXScreenerChainID,
			"token_addresses_count", len(job.addresses),
			"error", err)
		return nil, err
	}

	if s.batchCache != nil {
		s.batchCache.SetDefault(cacheKey, pairs)
	}
	return pairs, nil
}

// toPairRecord maps a DEXScreener pair. A non-empty reason means the pair must be skipped.
func toPairRecord(pd dex_types.PairData, verified bool) (entity.PairRecord, string) {
	if pd.PairAddress == "" {
		return entity.PairRecord{}, "missing pair address"
	}
	price, err := strconv.ParseFloat(pd.PriceUsd, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return entity.PairRecord{}, fmt.Sprintf("unparsable price %q", pd.PriceUsd)
	}
	if pd.PairCreatedAt <= 0 {
		return entity.PairRecord{}, "missing creation time"
	}
	poolSize := utils.SafeDerefFloat64(pd.Liquidity, func(l dex_types.DEXLiquidity) float64 { return l.Usd })
	if poolSize < 0 || pd.Volume.H24 < 0 {
		return entity.PairRecord{}, "negative liquidity or volume"
	}

	return entity.PairRecord{
		Address:     pd.PairAddress,
		Symbol:      pd.BaseToken.Symbol,
		Name:        pd.BaseToken.Name,
		PairedAsset: pd.QuoteToken.Symbol,
		Verified:    verified,
		PoolSize:    poolSize,
		Price:       price,
		PriceChange: pd.PriceChange.H24,
		Volume24h:   pd.Volume.H24,
		CreatedAt:   time.UnixMilli(pd.PairCreatedAt).UTC(),
		Risk:        DeriveRisk(pd.Liquidity),
		ChainID:     pd.ChainID,
		DexID:       pd.DexID,
		URL:         pd.URL,
	}, ""
}

// DeriveRisk grades a pool by its USD liquidity. Unknown liquidity leaves risk unset.
func DeriveRisk(liquidity *dex_types.DEXLiquidity) entity.RiskLevel {
	if liquidity == nil {
		return entity.RiskUnset
	}
	switch {
	case liquidity.Usd < highRiskLiquidityUSD:
		return entity.RiskHigh
	case liquidity.Usd < mediumRiskLiquidityUSD:
		return entity.RiskMedium
	default:
		return entity.RiskLow
	}
}
