package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("CACHE_TTL", "")

	cfg := Load()
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "admin", cfg.AdminUsername)

	err := cfg.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Valid(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://shop")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")

	cfg := Load()
	require.NoError(t, cfg.ValidateServe())
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
}
