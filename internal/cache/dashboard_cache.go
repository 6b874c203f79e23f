package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyPrefix = "inventory:dashboard"
	dashboardKeyFormat = "v1"
	scanBatchSize      = 100
)

// DashboardCache stores derived dashboards keyed by the content hash of the
// upload they were computed from.
type DashboardCache interface {
	GetDashboard(ctx context.Context, hash string) (*domain.Dashboard, bool, error)
	SetDashboard(ctx context.Context, hash string, dashboard *domain.Dashboard) error
	// InvalidateAll drops every cached dashboard, across key formats, and
	// returns how many entries were removed.
	InvalidateAll(ctx context.Context) (int, error)
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, err := dialRedis(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisDashboardCache(client, dashboardTTL(cfg)), nil
}

// NewRedisDashboardCache wraps an existing redis client.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) DashboardCache {
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
	}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetDashboard(ctx context.Context, hash string) (*domain.Dashboard, bool, error) {
	payload, err := c.client.Get(ctx, buildDashboardKey(hash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) SetDashboard(ctx context.Context, hash string, dashboard *domain.Dashboard) error {
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, buildDashboardKey(hash), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) (int, error) {
	return unlinkMatching(ctx, c.client, dashboardKeyPrefix+":*")
}

func (n *noopDashboardCache) GetDashboard(ctx context.Context, hash string) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDashboard(ctx context.Context, hash string, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) (int, error) {
	return 0, nil
}

func buildDashboardKey(hash string) string {
	return fmt.Sprintf("%s:%s:%s", dashboardKeyPrefix, dashboardKeyFormat, hash)
}

// ContentHash returns the hex sha1 of an upload, used as its cache identity.
func ContentHash(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
