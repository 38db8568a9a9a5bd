package slotcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache shares memoized slots between instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache stores entries as JSON with the given ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get treats a Redis error as a miss.
func (r *RedisCache) Get(ctx context.Context, key string) ([]models.TimeSlot, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			configslog.Log.Warn("slot cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		configslog.Log.Warn("slot cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return slots, true
}

// Set logs and ignores Redis errors.
func (r *RedisCache) Set(ctx context.Context, key string, slots []models.TimeSlot) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		configslog.Log.Warn("slot cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateDate deletes the day's keys found with SCAN.
func (r *RedisCache) InvalidateDate(ctx context.Context, date string) {
	iter := r.client.Scan(ctx, 0, datePrefix(date)+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		configslog.Log.Warn("slot cache scan failed", zap.String("date", date), zap.Error(err))
	}
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		configslog.Log.Warn("slot cache invalidate failed", zap.String("date", date), zap.Error(err))
	}
}

var _ Cache = (*RedisCache)(nil)
