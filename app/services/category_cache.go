package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const categoryCachePrefix = "sellup:category:descendants:"

// CategoryCache stores resolved descendant closures. Misses and cache
// failures are indistinguishable to callers.
type CategoryCache interface {
	GetDescendants(ctx context.Context, id uint) ([]uint, bool)
	SetDescendants(ctx context.Context, id uint, ids []uint)
	Invalidate(ctx context.Context)
}

type redisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) CategoryCache {
	return &redisCategoryCache{client: client, ttl: ttl, logger: logger}
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func descendantsKey(id uint) string {
	return fmt.Sprintf("%s%d", categoryCachePrefix, id)
}

func (c *redisCategoryCache) GetDescendants(ctx context.Context, id uint) ([]uint, bool) {
	data, err := c.client.Get(ctx, descendantsKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("category cache read failed", zap.Uint("category_id", id), zap.Error(err))
		}
		return nil, false
	}
	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (c *redisCategoryCache) SetDescendants(ctx context.Context, id uint, ids []uint) {
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, descendantsKey(id), data, c.ttl).Err(); err != nil {
		c.logger.Warn("category cache write failed", zap.Uint("category_id", id), zap.Error(err))
	}
}

func (c *redisCategoryCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, categoryCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("category cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("category cache invalidation failed", zap.Error(err))
	}
}
