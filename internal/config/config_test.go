package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	require.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	require.Equal(t, 1500*time.Millisecond, cfg.Checkout.SimulatedDelay)
	require.True(t, cfg.Order.StrictTransitions)
	require.Empty(t, cfg.Catalog.Path)
	require.False(t, cfg.Server.Admin.Enabled)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, LimitConfig{Capacity: 5, RatePS: 0.1}, cfg.RateLimit.Checkout)
	require.Equal(t, LimitConfig{Capacity: 10, RatePS: 0.5}, cfg.RateLimit.Track)

	threshold, err := cfg.Pricing.Threshold()
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(100).Equal(threshold))
	cost, err := cfg.Pricing.Cost()
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(7).Equal(cost))
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
server:
  addr: ":9090"
log:
  level: debug
storage:
  driver: redis
  redis:
    addr: "redis:6379"
    db: 2
    prefix: shop
pricing:
  free_shipping_threshold: "150.5"
  shipping_cost: "8"
checkout:
  simulated_delay: 250ms
order:
  strict_transitions: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, StorageDriverRedis, cfg.Storage.Driver)
	require.Equal(t, RedisConfig{Addr: "redis:6379", DB: 2, Prefix: "shop"}, cfg.Storage.Redis)
	require.Equal(t, 250*time.Millisecond, cfg.Checkout.SimulatedDelay)
	require.False(t, cfg.Order.StrictTransitions)

	threshold, err := cfg.Pricing.Threshold()
	require.NoError(t, err)
	require.Equal(t, "150.5", threshold.String())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "server:\n  addr: \":9090\"\n")
	t.Setenv("STOREFRONT_SERVER_ADDR", ":7070")
	t.Setenv("STOREFRONT_STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Server.Addr)
	require.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, dir, "storage:\n  driver: mongo\n"))
	require.ErrorIs(t, err, ErrInvalidStorageDriver)

	_, err = LoadConfig(writeConfig(t, dir, "pricing:\n  shipping_cost: \"-3\"\n"))
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = LoadConfig(writeConfig(t, dir, "pricing:\n  free_shipping_threshold: abc\n"))
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestLoaderWatch(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log:\n  level: info\n")

	loader, err := NewLoader(path)
	require.NoError(t, err)
	require.Equal(t, path, loader.ConfigFileUsed())

	var level atomic.Value
	loader.Watch(func(cfg *Config) { level.Store(cfg.Log.Level) }, nil)

	// 給 watcher 時間啟動
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	require.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "warn"
	}, 5*time.Second, 50*time.Millisecond)
	require.Equal(t, "warn", loader.Config().Log.Level)
}

func TestLoadConfigAdminAndRateLimit(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
server:
  admin:
    enabled: true
    token: s3cret
ratelimit:
  checkout:
    capacity: 2
    rate_per_second: 1
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, AdminConfig{Enabled: true, Token: "s3cret"}, cfg.Server.Admin)
	require.Equal(t, LimitConfig{Capacity: 2, RatePS: 1}, cfg.RateLimit.Checkout)
	require.Equal(t, 10, cfg.RateLimit.Track.Capacity)

	_, err = LoadConfig(writeConfig(t, t.TempDir(), "server:\n  admin:\n    enabled: true\n"))
	require.ErrorIs(t, err, ErrAdminTokenRequired)

	_, err = LoadConfig(writeConfig(t, t.TempDir(), "ratelimit:\n  track:\n    capacity: 0\n"))
	require.ErrorIs(t, err, ErrInvalidRateLimit)

	// 關閉時不檢查
	_, err = LoadConfig(writeConfig(t, t.TempDir(), "ratelimit:\n  enabled: false\n  track:\n    capacity: 0\n"))
	require.NoError(t, err)
}
