package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	IDs []string `json:"ids"`
}

func newListings(t *testing.T) *RedisListings {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisListings(client, time.Minute)
}

func put(t *testing.T, c *RedisListings, tenant uuid.UUID, key string, v listing) {
	t.Helper()
	e, _, err := c.Get(context.Background(), tenant, key, &listing{})
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), e, v))
}

func TestRedisListings_InvalidateHidesOldEntries(t *testing.T) {
	c := newListings(t)
	ctx := context.Background()
	tenant, other := uuid.New(), uuid.New()

	var got listing
	_, hit, err := c.Get(ctx, tenant, "day:2024-06-10", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	put(t, c, tenant, "day:2024-06-10", listing{IDs: []string{"a"}})
	put(t, c, other, "day:2024-06-10", listing{IDs: []string{"b"}})

	_, hit, err = c.Get(ctx, tenant, "day:2024-06-10", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []string{"a"}, got.IDs)

	require.NoError(t, c.Invalidate(ctx, tenant))

	_, hit, err = c.Get(ctx, tenant, "day:2024-06-10", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = c.Get(ctx, other, "day:2024-06-10", &got)
	require.NoError(t, err)
	assert.True(t, hit, "other tenants keep their entries")
}

func TestRedisListings_WriteDuringReadIsNotServed(t *testing.T) {
	c := newListings(t)
	ctx := context.Background()
	tenant := uuid.New()

	e, hit, err := c.Get(ctx, tenant, "day:2024-06-10", &listing{})
	require.NoError(t, err)
	require.False(t, hit)

	// a write lands between the database read and the cache fill
	require.NoError(t, c.Invalidate(ctx, tenant))
	require.NoError(t, c.Set(ctx, e, listing{IDs: []string{"stale"}}))

	_, hit, err = c.Get(ctx, tenant, "day:2024-06-10", &listing{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisListings_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisListings(client, time.Minute)
	ctx := context.Background()
	tenant := uuid.New()

	e, _, err := c.Get(ctx, tenant, "k", &listing{})
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, e, listing{}))
	mr.FastForward(2 * time.Minute)

	_, hit, err := c.Get(ctx, tenant, "k", &listing{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisListings_ZeroEntryIsIgnored(t *testing.T) {
	c := newListings(t)
	assert.NoError(t, c.Set(context.Background(), Entry{}, listing{}))
}
