package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "9020", cfg.Port)
	assert.Equal(t, "sonar-pro", cfg.PerplexityModel)
	assert.Equal(t, 3600, cfg.CacheTTLSeconds)
	assert.Equal(t, 60, cfg.RateWindowSeconds)
	assert.Equal(t, 50, cfg.RateWindowLimit)
	assert.Equal(t, 5, cfg.ConcurrentCalls)
	assert.Equal(t, 500, cfg.MaxOutputTokens)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PERPLEXITY_MODEL", "sonar-small")
	t.Setenv("RATE_WINDOW_LIMIT", "10")
	t.Setenv("RANKING_CACHE_TTL_SECONDS", "120")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sonar-small", cfg.PerplexityModel)
	assert.Equal(t, 10, cfg.RateWindowLimit)
	assert.Equal(t, 120, cfg.CacheTTLSeconds)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("RATE_WINDOW_LIMIT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 50, cfg.RateWindowLimit)
}

func TestLoad_SecretFromFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "perplexity_key")
	require.NoError(t, os.WriteFile(secretPath, []byte("pplx-test-key\n"), 0o600))

	t.Setenv("PERPLEXITY_API_KEY_FILE", secretPath)

	cfg := Load()

	assert.Equal(t, "pplx-test-key", cfg.PerplexityKey)
}

func TestLoad_DirectSecretWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "perplexity_key")
	require.NoError(t, os.WriteFile(secretPath, []byte("from-file"), 0o600))

	t.Setenv("PERPLEXITY_API_KEY", "from-env")
	t.Setenv("PERPLEXITY_API_KEY_FILE", secretPath)

	cfg := Load()

	assert.Equal(t, "from-env", cfg.PerplexityKey)
}
