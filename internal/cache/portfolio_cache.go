// Package cache provides the optional Redis-backed portfolio snapshot cache.
// It is pure acceleration: every failure degrades to a cache miss and the
// authoritative portfolio is always recomputable from the ledger. Writes to
// the ledger invalidate the owning user's snapshot, preserving read-your-writes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/quantabi/investment/internal/config"
	"github.com/quantabi/investment/internal/service"
)

// PortfolioCache implements service.SnapshotCache on Redis.
type PortfolioCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis and returns a PortfolioCache. The caller decides
// whether a connection failure is fatal; in this application it merely
// disables the cache.
func New(cfg config.RedisConfig, logger *slog.Logger) (*PortfolioCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache.New: ping %s: %w", cfg.Addr, err)
	}

	return &PortfolioCache{client: client, ttl: cfg.TTL, logger: logger}, nil
}

func snapshotKey(userID int64) string {
	return fmt.Sprintf("portfolio:snapshot:%d", userID)
}

// Get returns the cached view for a user, or (nil, false) on miss or error.
func (c *PortfolioCache) Get(ctx context.Context, userID int64) (*service.PortfolioView, bool) {
	raw, err := c.client.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("portfolio cache read failed", "user_id", userID, "err", err)
		}
		return nil, false
	}
	var view service.PortfolioView
	if err := json.Unmarshal(raw, &view); err != nil {
		// Corrupt entry: drop it and recompute.
		c.client.Del(ctx, snapshotKey(userID))
		return nil, false
	}
	return &view, true
}

// Set stores the view under the configured TTL, best-effort.
func (c *PortfolioCache) Set(ctx context.Context, userID int64, view *service.PortfolioView) {
	raw, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("portfolio cache marshal failed", "user_id", userID, "err", err)
		return
	}
	if err := c.client.Set(ctx, snapshotKey(userID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("portfolio cache write failed", "user_id", userID, "err", err)
	}
}

// Invalidate drops the user's snapshot after a ledger write.
func (c *PortfolioCache) Invalidate(ctx context.Context, userID int64) {
	if err := c.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		c.logger.Warn("portfolio cache invalidation failed", "user_id", userID, "err", err)
	}
}

// Close releases the Redis connection.
func (c *PortfolioCache) Close() error {
	return c.client.Close()
}
