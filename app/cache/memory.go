package cache

import (
	"context"
	"time"

	"blogledger/app/models"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps encoded records in process memory
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a cache whose entries expire after ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) Get(ctx context.Context, addr models.Address, dst interface{}) (bool, error) {
	raw, found := c.items.Get(cacheKey(addr))
	if !found {
		return false, nil
	}
	return true, decode(raw.([]byte), dst)
}

func (c *MemoryCache) Set(ctx context.Context, addr models.Address, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	c.items.SetDefault(cacheKey(addr), data)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, addrs ...models.Address) error {
	for _, addr := range addrs {
		c.items.Delete(cacheKey(addr))
	}
	return nil
}

func (c *MemoryCache) Close() error {
	c.items.Flush()
	return nil
}
