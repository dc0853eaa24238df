package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"mapengine/tile/tileid"
)

// Key identifies a cached tile by its owning source and coordinate.
type Key struct {
	SourceID string
	ID       tileid.ID
}

// Tile is a decoded tile payload. Data is opaque to the cache — geometry
// construction and GPU upload are external-collaborator concerns.
type Tile struct {
	SourceID      string
	ID            tileid.ID
	Data          any
	MemoryBytes   int64
	LastUsedFrame uint64
}

type entry struct {
	key      Key
	tile     *Tile
	pinCount int
	element  *list.Element
}

// Stats reports point-in-time cache occupancy and lifetime counters.
type Stats struct {
	Tiles     int
	Bytes     int64
	MaxTiles  int
	MaxBytes  int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a bounded LRU of decoded tiles, safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	entries  map[Key]*entry
	lru      *list.List // front = most recently used
	tiles    int
	bytes    int64
	maxTiles int
	maxBytes int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New builds a Cache honoring cfg's caps.
func New(cfg Config) *Cache {
	maxTiles := cfg.MaxTiles
	if maxTiles <= 0 {
		maxTiles = 256
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 128 * 1024 * 1024
	}
	return &Cache{
		entries:  make(map[Key]*entry),
		lru:      list.New(),
		maxTiles: maxTiles,
		maxBytes: maxBytes,
	}
}

// Get retrieves a tile by key, promoting it to the LRU head on hit.
func (c *Cache) Get(key Key) (*Tile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.lru.MoveToFront(e.element)
	c.hits.Add(1)
	return e.tile, true
}

// Contains reports whether key is present without affecting LRU order.
func (c *Cache) Contains(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Put inserts or replaces tile under key, then evicts unpinned
// least-recently-used entries until both caps hold.
func (c *Cache) Put(key Key, tile *Tile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pinCount := 0
	if existing, ok := c.entries[key]; ok {
		pinCount = existing.pinCount
		c.lru.Remove(existing.element)
		c.tiles--
		c.bytes -= existing.tile.MemoryBytes
	}

	e := &entry{key: key, tile: tile, pinCount: pinCount}
	e.element = c.lru.PushFront(e)
	c.entries[key] = e
	c.tiles++
	c.bytes += tile.MemoryBytes

	c.evictUntilFits()
}

// Pin marks key as held by an outside owner (the tile manager's active
// view), making it ineligible for eviction until a matching Unpin.
func (c *Cache) Pin(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.pinCount++
	}
}

// Unpin releases one outside hold on key. Once the pin count returns to
// zero, the entry becomes eligible for eviction again.
func (c *Cache) Unpin(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.pinCount > 0 {
		e.pinCount--
	}
}

// Clear drops every unpinned entry. When dropPinned is true, pinned
// entries are dropped too, regardless of outstanding holders.
func (c *Cache) Clear(dropPinned bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dropPinned {
		evicted := uint64(len(c.entries))
		c.entries = make(map[Key]*entry)
		c.lru.Init()
		c.tiles = 0
		c.bytes = 0
		if evicted > 0 {
			c.evictions.Add(evicted)
		}
		return
	}

	for key, e := range c.entries {
		if e.pinCount > 0 {
			continue
		}
		c.lru.Remove(e.element)
		delete(c.entries, key)
		c.tiles--
		c.bytes -= e.tile.MemoryBytes
		c.evictions.Add(1)
	}
}

// evictUntilFits evicts unpinned LRU entries until both caps hold, or
// until no unpinned entry remains. Must be called with c.mu held.
func (c *Cache) evictUntilFits() {
	for c.tiles > c.maxTiles || c.bytes > c.maxBytes {
		elem := c.evictionCandidate()
		if elem == nil {
			return
		}
		e := elem.Value.(*entry)
		c.lru.Remove(elem)
		delete(c.entries, e.key)
		c.tiles--
		c.bytes -= e.tile.MemoryBytes
		c.evictions.Add(1)
	}
}

// evictionCandidate walks the LRU list from the tail (least recently
// used) for the first unpinned entry.
func (c *Cache) evictionCandidate() *list.Element {
	for elem := c.lru.Back(); elem != nil; elem = elem.Prev() {
		if elem.Value.(*entry).pinCount == 0 {
			return elem
		}
	}
	return nil
}

// Stats reports current occupancy and lifetime counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	tiles, bytes, maxTiles, maxBytes := c.tiles, c.bytes, c.maxTiles, c.maxBytes
	c.mu.RUnlock()

	return Stats{
		Tiles:     tiles,
		Bytes:     bytes,
		MaxTiles:  maxTiles,
		MaxBytes:  maxBytes,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
