package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trekinfo/internal/config"
)

var keys = []string{
	"DATABASE_URL", "REDIS_URL", "BEARER_TOKEN", "OPENWEATHER_API_KEY", "PORT",
	"WEATHER_CACHE_SECONDS", "WEATHER_FETCH_TIMEOUT", "CHAT_PAGE_SIZE", "RATE_LIMIT_PER_MINUTE",
}

// clearEnv unsets every key for the test; t.Setenv restores the originals.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func noFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/trek")
	t.Setenv("BEARER_TOKEN", "tok")

	cfg, err := config.Load(noFile(t))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.WeatherCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.WeatherFetchTimeout)
	assert.Equal(t, 100, cfg.ChatPageSize)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.OpenWeatherAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/trek")
	t.Setenv("BEARER_TOKEN", "tok")
	t.Setenv("PORT", "9090")
	t.Setenv("WEATHER_CACHE_SECONDS", "600")
	t.Setenv("WEATHER_FETCH_TIMEOUT", "750ms")
	t.Setenv("CHAT_PAGE_SIZE", "25")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg, err := config.Load(noFile(t))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, 750*time.Millisecond, cfg.WeatherFetchTimeout)
	assert.Equal(t, 25, cfg.ChatPageSize)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoad_FetchTimeoutInSeconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/trek")
	t.Setenv("BEARER_TOKEN", "tok")
	t.Setenv("WEATHER_FETCH_TIMEOUT", "3")

	cfg, err := config.Load(noFile(t))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.WeatherFetchTimeout)
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("BEARER_TOKEN", "tok")

	_, err := config.Load(noFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/trek")
	_, err = config.Load(noFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BEARER_TOKEN")
}

func TestLoad_InvalidNumbers(t *testing.T) {
	for key, val := range map[string]string{
		"WEATHER_CACHE_SECONDS": "soon",
		"CHAT_PAGE_SIZE":        "-1",
		"RATE_LIMIT_PER_MINUTE": "0",
		"WEATHER_FETCH_TIMEOUT": "forever",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATABASE_URL", "postgres://localhost/trek")
			t.Setenv("BEARER_TOKEN", "tok")
			t.Setenv(key, val)

			_, err := config.Load(noFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=postgres://file/trek\nBEARER_TOKEN=from-file\nPORT=1234\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/trek", cfg.DatabaseURL)
	assert.Equal(t, "from-file", cfg.BearerToken)
	assert.Equal(t, "7000", cfg.Port, "process environment wins over the file")
}
