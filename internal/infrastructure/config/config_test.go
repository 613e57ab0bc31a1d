package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paysentinel/fraud-detection-backend/internal/service/scoring"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0.40, cfg.Scoring.Weights.AmountVelocity)
	assert.Equal(t, []string{"NG", "RU", "CN", "PK"}, cfg.Scoring.HighRiskCountries)
	assert.Equal(t, 32768, cfg.Scoring.TrackerCapacityPerShard)
	assert.Equal(t, scoring.DefaultReferenceStats(), cfg.Scoring.ReferenceStats)
	assert.Equal(t, 30*time.Second, cfg.Redis.DashboardTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FDS_SERVER_PORT", "9000")
	t.Setenv("FDS_ENVIRONMENT", "production")
	t.Setenv("FDS_REDIS_URL", "redis.internal:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.URL)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
log_level: debug
server:
  port: 8443
scoring:
  high_risk_countries: ["NG", "RU"]
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8443, cfg.Server.Port)
	assert.Equal(t, []string{"NG", "RU"}, cfg.Scoring.HighRiskCountries)
	// Untouched sections keep their defaults.
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoad_ReferenceStatsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
scoring:
  reference_stats:
    mean: [200, 4, 2, 1, 13, 0, 0, 0, 0]
    std_dev: [400, 3, 3, 2, 5, 1, 1, 1, 1]
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 200.0, cfg.Scoring.ReferenceStats.Mean[0])
	assert.Equal(t, 400.0, cfg.Scoring.ReferenceStats.StdDev[0])
	assert.Equal(t, 13.0, cfg.Scoring.ReferenceStats.Mean[4])
	// Untouched scoring knobs keep their defaults.
	assert.Equal(t, 0.40, cfg.Scoring.Weights.AmountVelocity)
}

func TestLoad_NegativeReferenceStdDev(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
scoring:
  reference_stats:
    std_dev: [-1, 2, 3, 2, 6, 1, 1, 1, 1]
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "std_dev[0] must be non-negative")
}

func TestLoad_MissingFileIsOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_InvalidWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
scoring:
  weights:
    amount_velocity: 0.9
    deviation: 0.25
    rule_based: 0.20
    device_sharing: 0.15
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights must sum to 1.0")
}
