package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "DB_HOST", "DB_NAME", "DB_MAX_OPEN_CONNS",
		"REDIS_ADDR", "REDIS_DB", "SESSION_COOKIE_SECURE", "MONITORING_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "yatube", cfg.Database.Name)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxIdleTime)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.SecureCookies)
	assert.Empty(t, cfg.MonitoringAPIKey)
}

func TestLoadOverridesAndInvalidValues(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("DB_MAX_IDLE_CONNS", "7")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")
	t.Setenv("REDIS_DB", "-1")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 7, cfg.Database.MaxIdleConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.True(t, cfg.SecureCookies)
}
