package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"BANKCOMPARE_CONFIG", "PORT", "DATA_DIR", "DATABASE_PATH", "LOG_LEVEL",
		"MAX_OPEN_CONNS", "MAX_IDLE_CONNS", "IDENTICAL_RATE_EPSILON",
		"DEPOSIT_LAG_THRESHOLD", "FRESHNESS_GATES_VALIDITY",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0.1, cfg.Comparison.IdenticalRateEpsilon)
	assert.Equal(t, 0.5, cfg.Comparison.DepositLagThreshold)
	assert.False(t, cfg.Validation.FreshnessGatesValidity)
	assert.Equal(t, 50.0, cfg.RateLimitRPS)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/srv/data")
	t.Setenv("IDENTICAL_RATE_EPSILON", "0.25")
	t.Setenv("FRESHNESS_GATES_VALIDITY", "true")
	t.Setenv("MAX_OPEN_CONNS", "не число")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, 0.25, cfg.Comparison.IdenticalRateEpsilon)
	assert.True(t, cfg.Validation.FreshnessGatesValidity)
	// Некорректное значение не затирает умолчание
	assert.Equal(t, 10, cfg.MaxOpenConns)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"port": "7070",
		"log_level": "debug",
		"comparison": {"identical_rate_epsilon": 0.2, "deposit_lag_threshold": 1.0}
	}`), 0o644))
	t.Setenv("BANKCOMPARE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0.2, cfg.Comparison.IdenticalRateEpsilon)
	// Незаданные в файле значения остаются умолчаниями
	assert.Equal(t, "./data", cfg.DataDir)
}

func TestLoadEnvBeatsConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": "7070"}`), 0o644))
	t.Setenv("BANKCOMPARE_CONFIG", path)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("BANKCOMPARE_CONFIG", "/нет/такого/файла.json")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestStoreConfig(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	sc := cfg.StoreConfig()
	assert.Equal(t, cfg.MaxOpenConns, sc.MaxOpenConns)
	assert.Equal(t, cfg.MaxIdleConns, sc.MaxIdleConns)
	assert.Equal(t, cfg.ConnMaxLifetime, sc.ConnMaxLifetime)
}
