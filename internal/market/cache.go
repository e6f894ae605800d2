package market

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// newCache returns a cache whose entries expire a fixed ttl after they are
// stored. Reads do not extend an entry's life.
func newCache[V any](ttl time.Duration) *ttlcache.Cache[string, V] {
	return ttlcache.New[string, V](
		ttlcache.WithTTL[string, V](ttl),
		ttlcache.WithDisableTouchOnHit[string, V](),
	)
}

func lookup[V any](c *ttlcache.Cache[string, V], key string) (V, bool) {
	if item := c.Get(key); item != nil && !item.IsExpired() {
		return item.Value(), true
	}
	var zero V
	return zero, false
}

func store[V any](c *ttlcache.Cache[string, V], key string, v V) {
	c.Set(key, v, ttlcache.DefaultTTL)
}

// sweep drops expired entries and returns how many went.
func sweep[V any](c *ttlcache.Cache[string, V]) int {
	before := c.Len()
	c.DeleteExpired()
	return before - c.Len()
}
