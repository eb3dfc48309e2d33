package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PhotoCache memoizes provider lookups per keyword. Failures behave like a miss.
type PhotoCache interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, urls []string)
}

func photoCacheKey(provider, keyword string) string {
	return provider + ":" + strings.ToLower(strings.TrimSpace(keyword))
}

type MemoryPhotoCache struct {
	c *cache.Cache
}

func NewMemoryPhotoCache(ttl time.Duration) *MemoryPhotoCache {
	return &MemoryPhotoCache{c: cache.New(ttl, time.Hour)}
}

func (m *MemoryPhotoCache) Get(_ context.Context, key string) ([]string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}
	urls, ok := v.([]string)
	return urls, ok
}

func (m *MemoryPhotoCache) Set(_ context.Context, key string, urls []string) {
	m.c.Set(key, urls, cache.DefaultExpiration)
}

type RedisPhotoCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

func NewRedisPhotoCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPhotoCache {
	return &RedisPhotoCache{client: client, ttl: ttl, prefix: "photo:", logger: logger}
}

func (r *RedisPhotoCache) Get(ctx context.Context, key string) ([]string, bool) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("photo cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		r.logger.Warn("photo cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return urls, true
}

func (r *RedisPhotoCache) Set(ctx context.Context, key string, urls []string) {
	data, err := json.Marshal(urls)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("photo cache write failed", zap.String("key", key), zap.Error(err))
	}
}
