package common

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "dev-secret")

	cfg, err := ParseConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "./data/bod.db", cfg.SQLitePath)
	assert.Equal(t, "admin123", cfg.AdminDefaultPassword)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.UseRedisCache())
	assert.False(t, cfg.SMTP.Enabled())
}

func TestParseConfig_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := ParseConfig()
	assert.Error(t, err)
}

func TestParseConfig_ProductionSecretLength(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "too-short")

	_, err := ParseConfig()
	assert.ErrorContains(t, err, "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", strings.Repeat("s", MinSessionSecretLength))
	cfg, err := ParseConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown env":   {"ENV": "staging"},
		"zero rate":     {"LOGIN_RATE_PER_MINUTE": "0"},
		"bad ttl":       {"CACHE_TTL": "soon"},
		"bad smtp port": {"SMTP_PORT": "smtp"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", "dev-secret")
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := ParseConfig()
			assert.Error(t, err)
		})
	}
}

func TestParseConfig_Backends(t *testing.T) {
	t.Setenv("SESSION_SECRET", "dev-secret")
	t.Setenv("DATABASE_URL", "postgres://bod@localhost/bod")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "site@bod.example")
	t.Setenv("NOTIFY_EMAIL", "owner@bod.example")

	cfg, err := ParseConfig()
	require.NoError(t, err)
	assert.True(t, cfg.UsePostgres())
	assert.True(t, cfg.UseRedisCache())
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "owner@bod.example", cfg.SMTP.NotifyTo)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPasswordHash("admin123", hash))
	assert.False(t, CheckPasswordHash("admin124", hash))
}
