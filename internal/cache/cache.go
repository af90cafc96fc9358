// Package cache keeps rendered appointment listings per tenant. Writers
// bump the tenant's version so every older entry stops being read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Entry is where a listing lives under the tenant version read by Get.
// Setting through it after an Invalidate writes to a version no reader
// will ask for again.
type Entry struct {
	key string
}

type Listings interface {
	Get(ctx context.Context, tenantID uuid.UUID, key string, dst any) (Entry, bool, error)
	Set(ctx context.Context, e Entry, v any) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

type RedisListings struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListings(client *redis.Client, ttl time.Duration) *RedisListings {
	return &RedisListings{client: client, ttl: ttl}
}

func versionKey(tenantID uuid.UUID) string {
	return "binda:listing:ver:" + tenantID.String()
}

func (c *RedisListings) entry(ctx context.Context, tenantID uuid.UUID, key string) (Entry, error) {
	ver, err := c.client.Get(ctx, versionKey(tenantID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Entry{}, err
	}
	return Entry{key: fmt.Sprintf("binda:listing:%s:v%d:%s", tenantID, ver, key)}, nil
}

func (c *RedisListings) Get(ctx context.Context, tenantID uuid.UUID, key string, dst any) (Entry, bool, error) {
	e, err := c.entry(ctx, tenantID, key)
	if err != nil {
		return Entry{}, false, err
	}

	raw, err := c.client.Get(ctx, e.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return e, false, err
	}
	return e, true, nil
}

// Set is a no-op for the zero Entry.
func (c *RedisListings) Set(ctx context.Context, e Entry, v any) error {
	if e.key == "" {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, e.key, raw, c.ttl).Err()
}

func (c *RedisListings) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return c.client.Incr(ctx, versionKey(tenantID)).Err()
}

// Nop never hits; used when Redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, uuid.UUID, string, any) (Entry, bool, error) { return Entry{}, false, nil }
func (Nop) Set(context.Context, Entry, any) error                            { return nil }
func (Nop) Invalidate(context.Context, uuid.UUID) error                      { return nil }

var (
	_ Listings = (*RedisListings)(nil)
	_ Listings = Nop{}
)
