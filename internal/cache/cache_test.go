package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(DefaultTTL)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "r1", 28))
	got, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(28), got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2022, 1, 1, 13, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Hour)
	c.nowFunc = clock.Now
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r1", 6))

	clock.now = clock.now.Add(59 * time.Minute)
	_, ok, _ := c.Get(ctx, "r1")
	assert.True(t, ok, "entry should survive until the ttl elapses")

	clock.now = clock.now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "r1")
	assert.False(t, ok, "entry should expire at the ttl")
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on read")
}

func TestMemoryCache_NoExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := NewMemoryCache(0)
	c.nowFunc = clock.Now
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r1", 81))
	clock.now = clock.now.Add(24 * 365 * time.Hour)

	got, ok, _ := c.Get(ctx, "r1")
	assert.True(t, ok)
	assert.Equal(t, int64(81), got)
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(DefaultTTL)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", 1))
	require.NoError(t, c.Set(ctx, "b", 2))

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestRedisCache_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCache(client, DefaultTTL)
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "r1")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(context.Background(), "r1", 1))
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "receipt:points:abc", key("abc"))
}
