package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStrategyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOrDefault_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesOnTopOfDefaults(t *testing.T) {
	path := writeStrategyFile(t, "enrich:\n  ceiling: 100\n  limit_multiple: 5\n  floor: 30\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Enrich.Ceiling)
	// Untouched sections keep their defaults
	assert.Equal(t, Default().Weights, cfg.Weights)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeStrategyFile(t, "enrichment_budget: 5\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidOverride(t *testing.T) {
	// Overriding one weight entry replaces the whole entry, so a partial
	// entry no longer sums to 100 and must be rejected
	path := writeStrategyFile(t, "weights:\n  swing:\n    financial: 50\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/strategy.yaml")
	assert.Error(t, err)
}
