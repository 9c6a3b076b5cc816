// Package cache provides a generic LRU cache with hit and miss counters.
//
//	c := cache.New[string, *image.Gray](32)
//	c.Set("a.png", img)
//	img, ok := c.Get("a.png")
//
// A Cache is safe for concurrent use and must not be copied after
// creation.
package cache
