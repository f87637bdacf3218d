package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	spec, err := buildFilter(-1, 0, "", "")
	require.NoError(t, err)
	assert.True(t, spec.IsEmpty())

	spec, err = buildFilter(0, 24*time.Hour, "WETH", "false")
	require.NoError(t, err)
	require.NotNil(t, spec.MinPoolSize)
	assert.Equal(t, 0.0, *spec.MinPoolSize)
	assert.Equal(t, 24*time.Hour, *spec.MaxAge)
	assert.Equal(t, "WETH", *spec.PairedAsset)
	assert.False(t, *spec.Verified)

	_, err = buildFilter(-1, 0, "", "maybe")
	assert.Error(t, err)
}
