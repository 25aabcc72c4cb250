package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Item wraps a cached value with its expiry.
type Item[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// TTLCache is an LRU cache whose entries also expire after a fixed TTL.
type TTLCache[V any] struct {
	lruCache *lru.Cache[string, Item[V]]
	ttl      time.Duration
	now      func() time.Time
}

func New[V any](size int, ttl time.Duration) (*TTLCache[V], error) {
	l, err := lru.New[string, Item[V]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[V]{lruCache: l, ttl: ttl, now: time.Now}, nil
}

func (c *TTLCache[V]) Set(key string, data V) {
	c.lruCache.Add(key, Item[V]{
		Data:      data,
		ExpiresAt: c.now().Add(c.ttl),
	})
}

// Get returns the cached value, or false when missing or expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.lruCache.Get(key)
	if !ok {
		return zero, false
	}

	if !c.now().Before(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return zero, false
	}

	return val.Data, true
}

func (c *TTLCache[V]) Delete(key string) {
	c.lruCache.Remove(key)
}
