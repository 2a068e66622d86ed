// Package cache provides the keyed lookup tables used by the device layer:
// antialiasing profile tables per adapter and format pair, built with
// GetOrCreate, and vertex declarations per element hash, looked up with Get
// and stored with Set. OnEvict lets the owner release native handles when
// entries leave the table.
//
// A [Cache] maps a comparable key to a value that is built on first use by
// GetOrCreate and reused afterwards. A soft limit bounds the table; the least
// recently used entries are evicted first. Hit and miss counters are kept so
// callers can report cache efficiency.
//
//	c := cache.New[string, int](64)
//	v := c.GetOrCreate("key", func() int { return 42 })
//	s := c.Stats() // s.Misses == 1
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
