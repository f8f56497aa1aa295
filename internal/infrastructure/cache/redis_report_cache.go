package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisReportCache implements ReportCache on Redis so every instance serves
// the same reports.
//
// Each user has a generation counter; report keys embed it. InvalidateUser
// bumps the counter, which orphans the old keys until their TTL reaps them.
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisReportCache connects to Redis and verifies the connection
func NewRedisReportCache(cfg config.RedisConfig, ttl time.Duration) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisReportCacheWithClient(client, "", ttl), nil
}

// NewRedisReportCacheWithClient creates a cache on an existing client
func NewRedisReportCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisReportCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Get decodes the cached report into dest. A miss returns false and no error.
func (c *RedisReportCache) Get(ctx context.Context, userID uuid.UUID, key string, dest any) (int64, bool, error) {
	gen, err := c.generation(ctx, userID)
	if err != nil {
		return 0, false, err
	}

	raw, err := c.client.Get(ctx, c.reportKey(userID, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gen, false, nil
	}
	if err != nil {
		return gen, false, fmt.Errorf("failed to read cached report: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return gen, false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return gen, true, nil
}

// Set stores value under gen. A stale gen lands on an orphaned key.
func (c *RedisReportCache) Set(ctx context.Context, userID uuid.UUID, gen int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := c.client.Set(ctx, c.reportKey(userID, gen, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// InvalidateUser bumps the user's generation
func (c *RedisReportCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Incr(ctx, c.generationKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate reports: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// Ping checks that Redis answers
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read report generation: %w", err)
	}
	return gen, nil
}

func (c *RedisReportCache) generationKey(userID uuid.UUID) string {
	return c.keyPrefix + "gen:" + userID.String()
}

func (c *RedisReportCache) reportKey(userID uuid.UUID, gen int64, key string) string {
	return fmt.Sprintf("%s%s:%d:%s", c.keyPrefix, userID, gen, key)
}

var _ ReportCache = (*RedisReportCache)(nil)
