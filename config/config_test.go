package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	assert.Equal(t, "5000", cfg.Service.Port)
	assert.Equal(t, "auth-service", cfg.Service.Name)
	assert.Equal(t, "127.0.0.1", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, 3600, cfg.Session.ExpirySeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 10, cfg.Shutdown.TimeoutSeconds)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SESSION_EXPIRY", "120")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_SAMPLE_RATE", "0.25")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Service.Port)
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr())
	assert.Equal(t, 2*time.Minute, cfg.GetSessionExpiryDuration())
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRate)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_EXPIRY", "not-a-number")
	t.Setenv("TRACING_SAMPLE_RATE", "lots")

	cfg := Load()

	assert.Equal(t, 3600, cfg.Session.ExpirySeconds)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestValidate_MissingSecretIsFatal(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	cfg := Load()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate_BadSessionExpiry(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_EXPIRY", "-5")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_EXPIRY")
}
