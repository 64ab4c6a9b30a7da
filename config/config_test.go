package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", config.API.BaseURL)
	assert.Equal(t, 30*time.Second, config.API.Timeout)
	assert.Equal(t, 4, config.API.MaxConcurrency)
	assert.Equal(t, "catalog-staging/1.0", config.API.UserAgent)
	assert.Equal(t, 2*time.Hour, config.Session.TTL)
	assert.Equal(t, "*/10 * * * *", config.Session.SweepSchedule)
	assert.Equal(t, "info", config.Log.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CATALOG_API_BASE_URL", "https://catalog.example.com")
	t.Setenv("CATALOG_API_CSRF_TOKEN", "secret")
	t.Setenv("CATALOG_API_TIMEOUT", "10s")
	t.Setenv("CATALOG_API_MAX_CONCURRENCY", "8")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://catalog.example.com", config.API.BaseURL)
	assert.Equal(t, "secret", config.API.CSRFToken)
	assert.Equal(t, 10*time.Second, config.API.Timeout)
	assert.Equal(t, 8, config.API.MaxConcurrency)
	assert.Equal(t, 45*time.Minute, config.Session.TTL)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CATALOG_API_TIMEOUT", "not-a-duration")
	t.Setenv("CATALOG_API_MAX_CONCURRENCY", "zero")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, config.API.Timeout)
	assert.Equal(t, 4, config.API.MaxConcurrency)
}

func TestLoadClampsConcurrency(t *testing.T) {
	t.Setenv("CATALOG_API_MAX_CONCURRENCY", "0")

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, config.API.MaxConcurrency)
}
