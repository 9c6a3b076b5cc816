package software

import "github.com/gogpu/lcd/internal/cache"

// DefaultDecodeCacheSize is the number of decoded images kept by default.
const DefaultDecodeCacheSize = 32

// decodeKey identifies a decoded file. Size and modification time are part
// of the key so an edited asset is decoded again.
type decodeKey struct {
	path    string
	size    int64
	modTime int64
}

// decodeCache keeps decoded planes. Stored planes are never handed out
// directly; get returns a copy because bitmaps are drawn into.
type decodeCache struct {
	lru *cache.Cache[decodeKey, *plane]
}

func newDecodeCache(capacity int) *decodeCache {
	return &decodeCache{lru: cache.New[decodeKey, *plane](capacity)}
}

// get returns a copy of the cached plane for key. A disabled cache does
// not count misses.
func (c *decodeCache) get(key decodeKey) (*plane, bool) {
	if c.lru.Capacity() <= 0 {
		return nil, false
	}
	p, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// put stores a copy of p under key.
func (c *decodeCache) put(key decodeKey, p *plane) {
	c.lru.Set(key, p.clone())
}

func (c *decodeCache) stats() cache.Stats { return c.lru.Stats() }

func (c *decodeCache) len() int { return c.lru.Len() }

func (c *decodeCache) clear() { c.lru.Clear() }
