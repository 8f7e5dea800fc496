package utils

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem wraps cached data with its expiry.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// GlobalCache is a small in-process LRU used for the item index page.
type GlobalCache struct {
	lruCache *lru.Cache[string, CacheItem]
}

var cacheInstance *GlobalCache

// GetCache returns the singleton cache instance.
func GetCache() *GlobalCache {
	if cacheInstance == nil {
		l, err := lru.New[string, CacheItem](256)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &GlobalCache{
			lruCache: l,
		}
	}
	return cacheInstance
}

// Set stores data under key for the given TTL.
func (c *GlobalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data, or nil when absent or expired.
func (c *GlobalCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return val.Data
}

// Delete removes one key.
func (c *GlobalCache) Delete(key string) {
	c.lruCache.Remove(key)
}
