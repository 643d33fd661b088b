package database

import (
	"encoding/json"
	"log"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// Memcached reads an expiration above 30 days as a unix time
const maxRelativeExpiration = 30 * 24 * 60 * 60

// Cache keeps JSON values in Memcached. A nil Cache never hits
type Cache struct {
	mem *memcache.Client
}

// InitCache returns nil when url is empty
func InitCache(url string) *Cache {
	if url == "" {
		return nil
	}
	return &Cache{mem: memcache.New(url)}
}

// Get decodes the cached value of key into v and reports a hit
func (c *Cache) Get(key string, v any) bool {
	if c == nil {
		return false
	}

	item, err := c.mem.Get(key)
	if err != nil {
		if err != memcache.ErrCacheMiss {
			log.Printf("(Cache.Get) %s: %v", key, err)
		}
		return false
	}

	return json.Unmarshal(item.Value, v) == nil
}

// Set permits to set a temporary value, on the cache
// via Memcached
func (c *Cache) Set(key string, v any, ttl int32) {
	if c == nil {
		return
	}

	value, err := json.Marshal(v)
	if err != nil {
		log.Printf("(Cache.Set) %s: %v", key, err)
		return
	}

	if err := c.mem.Set(&memcache.Item{Key: key, Value: value, Expiration: ttl}); err != nil {
		log.Printf("(Cache.Set) %s: %v", key, err)
	}
}

func (c *Cache) Delete(key string) {
	if c == nil {
		return
	}

	if err := c.mem.Delete(key); err != nil && err != memcache.ErrCacheMiss {
		log.Printf("(Cache.Delete) %s: %v", key, err)
	}
}

// Revoke marks a token ID as revoked until its expiry
func (c *Cache) Revoke(id string, until time.Time) {
	ttl := time.Until(until)
	if ttl <= 0 {
		return
	}

	expiration := int32(ttl.Seconds()) + 1
	if expiration > maxRelativeExpiration {
		expiration = int32(until.Unix())
	}

	c.Set("revoked:"+id, true, expiration)
}

// IsRevoked reports a revoked token ID
func (c *Cache) IsRevoked(id string) bool {
	var revoked bool
	return c.Get("revoked:"+id, &revoked) && revoked
}
