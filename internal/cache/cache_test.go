package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestJSONCache(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewJSONCache(rdb, time.Minute)
	ctx := context.Background()

	var got []string
	found, err := c.GetJSON(ctx, "catalog:localities", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "catalog:localities", []string{"Lavapiés", "Malasaña"}))
	found, err = c.GetJSON(ctx, "catalog:localities", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Lavapiés", "Malasaña"}, got)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, "catalog:localities", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "k", 1))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestJSONCacheCorrupted(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("broken", "{"))

	var dst map[string]any
	_, err := NewJSONCache(rdb, time.Minute).GetJSON(context.Background(), "broken", &dst)
	assert.Error(t, err)
}

func TestReputationCache(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewReputationCache(rdb, time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	_, found, err := c.GetReputation(ctx, userID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetReputation(ctx, userID, 4.5))
	assert.True(t, mr.Exists("reputation:"+userID.String()))

	v, found, err := c.GetReputation(ctx, userID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 4.5, v, 1e-9)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
