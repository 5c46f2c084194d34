package providers

import (
	"errors"
	"unsafe"

	"github.com/coocood/freecache"
	"goodsync/internal/structures"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheProvider holds the last published documents. freecache refuses
// entries above a 1/1024 share of its size, so a rejected Set evicts the key
// instead of leaving the previous cycle's value readable.
type CacheProvider struct {
	cache  *freecache.Cache
	size   int
	ttl    int
	logger Logger
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled, documents are rendered on every request")
		return &noopCache{}
	}

	ttl := max(conf.Cache.TTL, 0)
	size := conf.Cache.Size << 20
	c := &CacheProvider{
		cache:  freecache.NewCache(size),
		size:   size,
		ttl:    ttl,
		logger: logger,
	}
	logger.Infof(TypeApp, "Cache: %dMB, entries up to %dKB, TTL=%ds", conf.Cache.Size, c.MaxEntrySize()>>10, ttl)
	return c
}

// MaxEntrySize approximates the largest key plus value freecache accepts.
func (c *CacheProvider) MaxEntrySize() int {
	return c.size >> 10
}

func keyBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(keyBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	err := c.cache.Set(keyBytes(key), value, c.ttl)
	if err == nil {
		return
	}
	c.cache.Del(keyBytes(key))
	if errors.Is(err, freecache.ErrLargeEntry) {
		c.logger.Debugf(TypeApp, "Cache entry %s not stored: %d bytes, limit %d", key, len(value), c.MaxEntrySize())
		return
	}
	c.logger.Warnf(TypeApp, "Cache entry %s not stored: %v", key, err)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
