package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SECRET", "HTTP_PORT", "DATABASE_DSN", "SEED_DIR", "SESSION_TTL", "CORS_ORIGINS", "REMINDER_SCHEDULE", "JOBS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "dev_secret", cfg.Secret)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "file:healthportal.db?_pragma=foreign_keys(1)", cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "5 0 * * *", cfg.ReminderSchedule)
	assert.True(t, cfg.JobsEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://portal.example ")
	t.Setenv("JOBS_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://portal.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.JobsEnabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	t.Setenv("SESSION_TTL", "-1h")
	t.Setenv("JOBS_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.JobsEnabled)
}
