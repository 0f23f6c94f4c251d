package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores rendered responses of generation requests.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies the response of one operation on one project.
type CacheKey struct {
	Operation string
	Project   string
	Digest    string
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Operation + ":" + k.Project + ":" + k.Digest
}

// projectKey returns the cache key of a request body for the operation.
func projectKey(op, project string, body any) (CacheKey, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return CacheKey{}, err
	}
	sum := sha256.Sum256(b)
	return CacheKey{Operation: op, Project: project, Digest: hex.EncodeToString(sum[:])}, nil
}

type cacheEntry struct {
	value   []byte
	expires time.Time
}

// DefaultCacheSize is the entry limit of the default server cache.
const DefaultCacheSize = 256

// MemoryCache is an in-process Cache holding at most size entries. The least
// recently used entry is evicted when it is full and entries older than the
// cache TTL are swept in the background. A shorter TTL passed to Set is
// checked on Get.
type MemoryCache struct {
	lru *expirable.LRU[string, cacheEntry]
	now func() time.Time
}

// NewMemoryCache returns an empty in-process cache. A ttl of zero keeps
// entries until they are evicted or removed.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, cacheEntry](size, nil, ttl),
		now: time.Now,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.lru.Remove(key)
		return nil, nil
	}
	return e.value, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := cacheEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(context.Context) error {
	c.lru.Purge()
	return nil
}

// Len returns the number of stored entries. Entries past a Set TTL count
// until they are read or swept.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
