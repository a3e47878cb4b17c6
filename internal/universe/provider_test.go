package universe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_GetUniverse(t *testing.T) {
	p := NewStaticProvider()

	u, err := p.GetUniverse(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, u.Tickers)
	assert.NotEmpty(t, u.Core)
	assert.Greater(t, len(u.Tickers), len(u.Core))

	// No duplicates after the core/extended merge
	seen := make(map[string]bool, len(u.Tickers))
	for _, ticker := range u.Tickers {
		assert.False(t, seen[ticker], "duplicate ticker %s", ticker)
		seen[ticker] = true
	}

	// Every core ticker is part of the universe
	for _, core := range u.Core {
		assert.True(t, seen[core], "core ticker %s missing from universe", core)
	}
}
