package inmemory

import (
	"time"

	analyticsdomain "dues-app-go/internal/domain/analytics"
	"github.com/patrickmn/go-cache"
)

const dashboardCleanupInterval = 5 * time.Minute

// DashboardCache keeps computed dashboard aggregates until their TTL passes
// or a money row changes.
type DashboardCache struct {
	items *cache.Cache
}

func NewDashboardCache() *DashboardCache {
	return &DashboardCache{
		items: cache.New(cache.NoExpiration, dashboardCleanupInterval),
	}
}

func (c *DashboardCache) GetStats(key string) (analyticsdomain.Stats, bool) {
	value, ok := c.items.Get(key)
	if !ok {
		return analyticsdomain.Stats{}, false
	}
	stats, ok := value.(analyticsdomain.Stats)
	return stats, ok
}

func (c *DashboardCache) SetStats(key string, stats analyticsdomain.Stats, ttl time.Duration) {
	if ttl <= 0 {
		c.items.Delete(key)
		return
	}
	c.items.Set(key, stats, ttl)
}

func (c *DashboardCache) GetCollections(key string) (analyticsdomain.Collections, bool) {
	value, ok := c.items.Get(key)
	if !ok {
		return analyticsdomain.Collections{}, false
	}
	collections, ok := value.(analyticsdomain.Collections)
	return collections, ok
}

func (c *DashboardCache) SetCollections(key string, collections analyticsdomain.Collections, ttl time.Duration) {
	if ttl <= 0 {
		c.items.Delete(key)
		return
	}
	c.items.Set(key, collections, ttl)
}

func (c *DashboardCache) Flush() {
	c.items.Flush()
}
