package infra

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ResponseCache is a TTL cache for fetched provider payloads, keyed by
// request signature. It sits in front of the fetch orchestration: a hit
// short-circuits the network call entirely, including its retry logic.
// Expired entries read as a miss; a background janitor sweeps them out.
type ResponseCache struct {
	store *gocache.Cache
}

// NewResponseCache creates a cache with the given default TTL and sweep
// interval for the background janitor.
func NewResponseCache(ttl, sweep time.Duration) *ResponseCache {
	return &ResponseCache{store: gocache.New(ttl, sweep)}
}

// Get returns the cached value for a signature, or false on miss/expiry.
func (c *ResponseCache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Put stores a value with the default TTL.
func (c *ResponseCache) Put(key string, value any) {
	c.store.SetDefault(key, value)
}

// PutTTL stores a value with a custom TTL.
func (c *ResponseCache) PutTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Flush drops every entry.
func (c *ResponseCache) Flush() {
	c.store.Flush()
}

// Len returns the number of live entries (expired but unswept entries
// may be counted).
func (c *ResponseCache) Len() int {
	return c.store.ItemCount()
}
