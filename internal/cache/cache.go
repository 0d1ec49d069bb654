// Package cache holds the read-through cache for the marketplace discount
// digest, the one cross-shopkeeper read every shop polls. Writes that change
// a discount listing invalidate it; the TTL bounds staleness otherwise.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"shopledger/internal/domain"
)

const digestKey = "shopledger:discount-digest"

type DigestCache interface {
	Get(ctx context.Context) ([]domain.DiscountDigest, bool)
	Set(ctx context.Context, digest []domain.DiscountDigest)
	Invalidate(ctx context.Context)
}

// Redis shares the digest between instances.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{rdb: redis.NewClient(&redis.Options{Addr: addr}), ttl: ttl}
}

func (c *Redis) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *Redis) Close() error { return c.rdb.Close() }

func (c *Redis) Get(ctx context.Context) ([]domain.DiscountDigest, bool) {
	val, err := c.rdb.Get(ctx, digestKey).Bytes()
	if err != nil {
		return nil, false
	}
	var out []domain.DiscountDigest
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *Redis) Set(ctx context.Context, digest []domain.DiscountDigest) {
	data, err := json.Marshal(digest)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, digestKey, data, c.ttl)
}

func (c *Redis) Invalidate(ctx context.Context) {
	c.rdb.Del(ctx, digestKey)
}

// Memory is the single-instance fallback used when no Redis is configured.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	val     []domain.DiscountDigest
	expires time.Time
	ok      bool
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (c *Memory) Get(context.Context) ([]domain.DiscountDigest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok || !c.now().Before(c.expires) {
		return nil, false
	}
	out := make([]domain.DiscountDigest, len(c.val))
	copy(out, c.val)
	return out, true
}

func (c *Memory) Set(_ context.Context, digest []domain.DiscountDigest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = make([]domain.DiscountDigest, len(digest))
	copy(c.val, digest)
	c.expires = c.now().Add(c.ttl)
	c.ok = true
}

func (c *Memory) Invalidate(context.Context) {
	c.mu.Lock()
	c.val, c.ok = nil, false
	c.mu.Unlock()
}

// Nop never caches.
type Nop struct{}

func (Nop) Get(context.Context) ([]domain.DiscountDigest, bool) { return nil, false }
func (Nop) Set(context.Context, []domain.DiscountDigest)        {}
func (Nop) Invalidate(context.Context)                          {}
