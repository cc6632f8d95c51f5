package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationsKey(t *testing.T) {
	assert.Equal(t, "recs:w1:4:false", RecommendationsKey("w1", 4, false))
	assert.Equal(t, "recs:w1:10:true", RecommendationsKey("w1", 10, true))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return clock }

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "recs:a:4:false", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "recs:b:4:false", []byte("b"), 0))
	require.NoError(t, c.Set(ctx, "other", []byte("o"), time.Hour))

	v, ok, _ := c.Get(ctx, "recs:a:4:false")
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), v)

	clock = clock.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "recs:a:4:false")
	assert.False(t, ok, "expired")
	_, ok, _ = c.Get(ctx, "recs:b:4:false")
	assert.True(t, ok, "no ttl")

	require.NoError(t, c.DeletePrefix(ctx, RecommendationsPrefix))
	_, ok, _ = c.Get(ctx, "recs:b:4:false")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "other")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCache(client)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, c := newRedis(t)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "recs:a:4:false", []byte(`{"total":1}`), time.Hour))
	v, ok, err := c.Get(ctx, "recs:a:4:false")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"total":1}`, string(v))

	mr.FastForward(time.Hour)
	_, ok, err = c.Get(ctx, "recs:a:4:false")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	mr, c := newRedis(t)

	for _, k := range []string{"recs:a:4:false", "recs:b:4:true", "keep"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), time.Hour))
	}
	require.NoError(t, c.DeletePrefix(ctx, RecommendationsPrefix))

	assert.False(t, mr.Exists("recs:a:4:false"))
	assert.False(t, mr.Exists("recs:b:4:true"))
	assert.True(t, mr.Exists("keep"))

	require.NoError(t, c.DeletePrefix(ctx, "none:"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	mr, c := newRedis(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	_, err := NewRedisClient(RedisConfig{})
	assert.ErrorIs(t, err, ErrEmptyAddress)

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
