package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CART_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, BackendMemory, cfg.Cart.Backend)
	assert.Equal(t, 300*time.Millisecond, cfg.Catalog.SearchDebounce)
	assert.Equal(t, "usd", cfg.Checkout.Currency)
	assert.Equal(t, 15*time.Minute, cfg.Cart.CacheIdleTTL())
	assert.Equal(t, 10000, cfg.Cart.CacheSize)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
httpPort: 9000
cart:
  backend: redis
  redisAddr: redis:6379
  ttl: 2h
  cacheTTL: 4h
catalog:
  searchDebounce: 150ms
postgres:
  host: db
  port: 5433
checkout:
  publicBaseUrl: https://shop.example.com
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CART_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.HTTPPort, "env wins over file")
	assert.Equal(t, BackendRedis, cfg.Cart.Backend)
	assert.Equal(t, "redis:6379", cfg.Cart.RedisAddr)
	assert.Equal(t, 2*time.Hour, cfg.Cart.TTL, "bad env duration keeps file value")
	assert.Equal(t, 2*time.Hour, cfg.Cart.CacheIdleTTL(), "cache never outlives the cart")
	assert.Equal(t, 150*time.Millisecond, cfg.Catalog.SearchDebounce)
	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, "https://shop.example.com", cfg.Checkout.PublicBaseURL)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("unknown backend -> invalid", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("CART_BACKEND", "mongo")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("prod without secret -> invalid", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("APP_ENV", "prod")
		t.Setenv("SESSION_SECRET", "")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("missing file -> error", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})
}
