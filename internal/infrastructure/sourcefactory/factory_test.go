package sourcefactory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pair_screener/internal/infrastructure/configloader"
	"pair_screener/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Mock(t *testing.T) {
	cfg := &configloader.Config{}
	cfg.Source.Kind = configloader.SourceKindMock
	cfg.Source.Mock.Count = 4
	cfg.Source.Mock.Seed = 9

	src, networks, err := New(cfg, zap.NewNop(), logger.NewSlogAdapter())
	require.NoError(t, err)
	assert.Nil(t, networks)

	pairs, err := src.ListPairs(context.Background())
	require.NoError(t, err)
	assert.Len(t, pairs, 4)
}

func TestNew_DEXScreenerActivatesNetworksFromWatchlists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.json"), []byte(`[]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unknownchain.json"), []byte(`[]`), 0o600))

	cfg := &configloader.Config{TokensDir: dir}
	cfg.Source.Kind = configloader.SourceKindDEXScreener
	cfg.DEXScreener.BaseURL = "http://127.0.0.1:1"

	src, networks, err := New(cfg, zap.NewNop(), logger.NewSlogAdapter())
	require.NoError(t, err)
	require.NotNil(t, src)
	require.NotNil(t, networks)

	defs := networks.GetAllNetworkDefinitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "base", defs[0].Identifier)

	// Empty watchlist means no requests and an empty listing.
	pairs, err := src.ListPairs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestNew_UnknownKind(t *testing.T) {
	cfg := &configloader.Config{}
	cfg.Source.Kind = "kafka"

	_, _, err := New(cfg, zap.NewNop(), logger.NewSlogAdapter())
	assert.Error(t, err)
}
