// Package redislock serialises work per key across API instances.
package redislock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

var ErrBusy = errors.New("lock busy")

// Locker runs fn while holding the named mutex.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	wait    time.Duration
	backoff time.Duration
}

// NewRedisLocker holds each key for at most ttl and waits up to wait to
// obtain it.
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client:  client,
		prefix:  "binda:lock:",
		ttl:     ttl,
		wait:    wait,
		backoff: 25 * time.Millisecond,
	}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	token := uuid.NewString()
	full := l.prefix + key

	if err := l.obtain(ctx, full, token); err != nil {
		return err
	}
	defer func() {
		// release with a fresh context; the request may already be gone
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.client, []string{full}, token).Err()
	}()

	return fn()
}

func (l *RedisLocker) obtain(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrBusy
		}

		t := time.NewTimer(l.backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// LocalLocker is the single-instance fallback when no Redis is configured.
// A key's semaphore lives only while someone holds or waits for it.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*localKey
	wait time.Duration
}

type localKey struct {
	sem  *semaphore.Weighted
	refs int
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{keys: make(map[string]*localKey), wait: wait}
}

func (l *LocalLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	k := l.acquireKey(key)
	defer l.releaseKey(key, k)

	wctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	if err := k.sem.Acquire(wctx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrBusy
	}
	defer k.sem.Release(1)

	return fn()
}

func (l *LocalLocker) acquireKey(key string) *localKey {
	l.mu.Lock()
	defer l.mu.Unlock()
	k, ok := l.keys[key]
	if !ok {
		k = &localKey{sem: semaphore.NewWeighted(1)}
		l.keys[key] = k
	}
	k.refs++
	return k
}

func (l *LocalLocker) releaseKey(key string, k *localKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.keys, key)
	}
}

var (
	_ Locker = (*RedisLocker)(nil)
	_ Locker = (*LocalLocker)(nil)
)
