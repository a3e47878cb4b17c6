package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 1500, cfg.Scan.UniverseCap)
	assert.Equal(t, 10, cfg.Scan.DefaultLimit)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SCAN_DEFAULT_LIMIT", "7")
	t.Setenv("SCAN_FUNDAMENTALS_TTL", "2h")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 7, cfg.Scan.DefaultLimit)
	assert.Equal(t, "2h0m0s", cfg.Scan.FundamentalsTTL.String())
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresDatabaseURLWhenEnabled(t *testing.T) {
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvHelpers_BadValuesFallBack(t *testing.T) {
	t.Setenv("SCAN_UNIVERSE_CAP", "not-a-number")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1500, cfg.Scan.UniverseCap)
	assert.True(t, cfg.MetricsEnabled)
}
