package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "localhost", cfg.DBHost)
	require.Equal(t, time.Hour, cfg.TokenLifetime)
	require.Equal(t, int64(10), cfg.RateLimitRequests)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "shop_test")
	t.Setenv("TOKEN_LIFETIME", "30m")
	t.Setenv("RATE_LIMIT_REQUESTS", "3")

	cfg := LoadConfig()

	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "shop_test", cfg.DBName)
	require.Equal(t, 30*time.Minute, cfg.TokenLifetime)
	require.Equal(t, int64(3), cfg.RateLimitRequests)
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_USER", "shop")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "shopdb")

	cfg := LoadConfig()
	require.Equal(t, "shop:secret@tcp(db:3307)/shopdb?parseTime=true", cfg.DSN())
}
