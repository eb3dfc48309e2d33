package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPhotoCacheKeyNormalizesKeyword(t *testing.T) {
	assert.Equal(t, "places:da lat", photoCacheKey("places", "  Da Lat "))
}

func TestMemoryPhotoCache(t *testing.T) {
	c := NewMemoryPhotoCache(time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "places:da lat")
	assert.False(t, ok)

	c.Set(ctx, "places:da lat", []string{"https://img/1.jpg"})
	urls, ok := c.Get(ctx, "places:da lat")
	assert.True(t, ok)
	assert.Equal(t, []string{"https://img/1.jpg"}, urls)
}

func TestMemoryPhotoCacheExpires(t *testing.T) {
	c := NewMemoryPhotoCache(10 * time.Millisecond)
	c.Set(context.Background(), "k", []string{"u"})

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestRedisPhotoCacheUnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisPhotoCache(client, time.Minute, zap.NewNop())

	assert.NotPanics(t, func() {
		c.Set(context.Background(), "k", []string{"u"})
	})
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
