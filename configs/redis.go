package configs

import (
	"context"
	"time"

	"acenumerik.fr/configs/configslog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var redisClient *redis.Client

// InitRedis connects to redis when REDIS_ENABLED is set. It returns nil when
// redis is disabled or unreachable so callers can fall back to in-process caches.
func InitRedis() *redis.Client {
	c := Get()
	if !c.Redis.Enabled {
		configslog.SLog.Info("Redis disabled, in-process caches will be used")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		configslog.Log.Warn("Redis unreachable, falling back to in-process caches", zap.String("addr", c.Redis.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	redisClient = client
	configslog.SLog.Infof("Redis connection established (%s)", c.Redis.Addr)
	return redisClient
}

// CloseRedis closes the shared client, if any.
func CloseRedis() {
	if redisClient == nil {
		return
	}
	if err := redisClient.Close(); err != nil {
		configslog.Log.Error("Failed to close redis client", zap.Error(err))
	}
}
