package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	for _, key := range []string{"PORT", "APP_ENV", "DB_DRIVER", "DB_DSN", "REDIS_ADDR", "DEBUG", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "restinvoice.db", cfg.DBDSN)
	assert.Equal(t, "restinvoice:apikey:", cfg.KVPrefix)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.Debug)
}

func TestLoadRejectsUnknownAppEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("APP_ENV", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadGeneratesSecret(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9090\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(cfg.JWTSecret), 32)

	env, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, cfg.JWTSecret, env["JWT_SECRET"])
	assert.Equal(t, "9090", env["PORT"])
}
