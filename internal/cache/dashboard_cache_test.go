package cache

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/domain"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewDashboardCache_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	c, err := NewDashboardCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.SetDashboard(ctx, "abc", &domain.Dashboard{Name: "x"}))
	d, ok, err := c.GetDashboard(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, d)
	n, err := c.InvalidateAll(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewDashboardCache_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := NewDashboardCache(config.CacheConfig{Enabled: true, RedisURL: "://bad"})
	assert.ErrorContains(t, err, "invalid redis url")
}

func TestRedisOptions(t *testing.T) {
	t.Parallel()

	opts, err := redisOptions(config.CacheConfig{RedisPassword: "secret", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://:pw@cache.internal:6380/3"})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
}

func TestDashboardTTL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Minute, dashboardTTL(config.CacheConfig{}))
	assert.Equal(t, time.Minute, dashboardTTL(config.CacheConfig{DashboardTTLSeconds: -5}))
	assert.Equal(t, 90*time.Second, dashboardTTL(config.CacheConfig{DashboardTTLSeconds: 90}))
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	a := ContentHash([]byte("item_id\n1\n"))
	assert.Len(t, a, 40)
	assert.Equal(t, a, ContentHash([]byte("item_id\n1\n")))
	assert.NotEqual(t, a, ContentHash([]byte("item_id\n2\n")))
	assert.Equal(t, "inventory:dashboard:v1:"+a, buildDashboardKey(a))
}

func TestRedisDashboardCache(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	c := NewRedisDashboardCache(client, time.Minute)
	_, err := c.InvalidateAll(ctx)
	require.NoError(t, err)

	hash := ContentHash([]byte(t.Name()))
	_, ok, err := c.GetDashboard(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	want := &domain.Dashboard{
		Name: "stock.csv",
		Hash: hash,
		Metrics: domain.InventoryMetrics{
			TotalItems:    2,
			TotalValue:    1500,
			LowStockCount: 1,
		},
		LowStock: []domain.Record{
			{ItemID: "001", ItemName: "Kopi", Location: "Gudang A", Quantity: 1, Price: math.NaN(), MinStock: 5},
		},
		ABCSummary: []domain.AbcClassSummary{{Class: domain.ClassA, ItemCount: 2, TotalValue: 1500, ValueShare: 100, ValueShareDisplay: "100.00%"}},
	}
	require.NoError(t, c.SetDashboard(ctx, hash, want))

	got, ok, err := c.GetDashboard(ctx, hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Metrics.TotalValue, got.Metrics.TotalValue)
	assert.Equal(t, want.ABCSummary, got.ABCSummary)
	require.Len(t, got.LowStock, 1)
	assert.Equal(t, "001", got.LowStock[0].ItemID)
	assert.True(t, math.IsNaN(got.LowStock[0].Price), "missing numbers survive the round trip")

	ttl, err := client.TTL(ctx, buildDashboardKey(hash)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, client.Set(ctx, "inventory:dashboard:v0:stale", "{}", time.Minute).Err())
	require.NoError(t, client.Set(ctx, "inventory:other", "keep", time.Minute).Err())
	t.Cleanup(func() { client.Del(context.Background(), "inventory:other") })

	removed, err := c.InvalidateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed, "current and older key formats are dropped")
	_, ok, err = c.GetDashboard(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), client.Exists(ctx, "inventory:other").Val())
}
