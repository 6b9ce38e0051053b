package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aurora-digital/identity/internal/constants"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps the Redis connection used as a fast path for blacklist
// lookups. The database remains the source of truth; when Redis is
// disabled or unreachable the callers fall back to it.
type Client struct {
	rdb     *redis.Client
	enabled bool
	log     *zap.Logger
}

type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if !cfg.Enabled {
		log.Info("Redis disabled, blacklist lookups will hit the database only")
		return &Client{enabled: false, log: log}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	client := &Client{rdb: rdb, enabled: true, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Warn("Failed to connect to Redis, continuing without cache",
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		client.enabled = false
		return client
	}

	log.Info("Successfully connected to Redis",
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("database", cfg.DB),
	)

	return client
}

func (c *Client) IsEnabled() bool {
	return c.enabled
}

func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// blacklistKey derives the cache key for a token. Tokens are hashed so
// raw token material never appears in Redis.
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return constants.CacheKeyBlacklist + hex.EncodeToString(sum[:])
}

// MarkBlacklisted records a revoked token with a TTL matching its
// remaining lifetime; after that the database entry is purged too.
func (c *Client) MarkBlacklisted(ctx context.Context, token string, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	if ttl <= 0 {
		return nil
	}

	if err := c.rdb.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		c.log.Error("Failed to cache blacklist entry", zap.Error(err))
		return fmt.Errorf("failed to cache blacklist entry: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the token is known-revoked in the cache.
// A false result is not authoritative; callers must still consult the
// database on a miss.
func (c *Client) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if !c.enabled {
		return false, nil
	}

	result, err := c.rdb.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist cache: %w", err)
	}
	return result > 0, nil
}

// Delete removes a cache entry
func (c *Client) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Stats returns connection pool statistics for health reporting.
func (c *Client) Stats() map[string]interface{} {
	if !c.enabled {
		return map[string]interface{}{"enabled": false}
	}

	poolStats := c.rdb.PoolStats()
	return map[string]interface{}{
		"enabled":     true,
		"hits":        poolStats.Hits,
		"misses":      poolStats.Misses,
		"total_conns": poolStats.TotalConns,
		"idle_conns":  poolStats.IdleConns,
	}
}
