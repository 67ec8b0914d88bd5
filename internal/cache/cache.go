package cache

import (
	"sync"
	"time"

	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/patrickmn/go-cache"
)

// Cache holds extracted case details between a scan and the import that
// follows, so a repeated import does not re-drive the portal.
type Cache interface {
	Get(fileNo string) (*model.CaseDetail, bool)
	Set(fileNo string, detail *model.CaseDetail) error
	Delete(fileNo string)
	Clear()
	Stats() CacheStats
}

type CacheStats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

type detailCache struct {
	cache   *cache.Cache
	mu      sync.RWMutex
	stats   CacheStats
	maxSize int
}

func NewCache(maxSize int, ttl time.Duration) Cache {
	return &detailCache{
		cache:   cache.New(ttl, ttl*2),
		maxSize: maxSize,
	}
}

func (c *detailCache) Get(fileNo string) (*model.CaseDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(fileNo); found {
		c.stats.Hits++
		if detail, ok := data.(*model.CaseDetail); ok {
			return detail, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *detailCache) Set(fileNo string, detail *model.CaseDetail) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.ItemCount() >= c.maxSize {
		c.removeOldest()
	}

	c.cache.Set(fileNo, detail, cache.DefaultExpiration)
	return nil
}

func (c *detailCache) Delete(fileNo string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(fileNo)
}

func (c *detailCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = CacheStats{}
}

func (c *detailCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.stats.Size = c.cache.ItemCount()
	return c.stats
}

func (c *detailCache) removeOldest() {
	items := c.cache.Items()
	if len(items) == 0 {
		return
	}

	var oldestKey string
	var oldestTime time.Time

	for key, item := range items {
		if oldestTime.IsZero() || item.Expiration < oldestTime.Unix() {
			oldestKey = key
			oldestTime = time.Unix(item.Expiration, 0)
		}
	}

	if oldestKey != "" {
		c.cache.Delete(oldestKey)
	}
}
