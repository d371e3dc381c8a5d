// Package memo is a bounded, concurrency-safe LRU of encoded rollup results.
//
// Entries are keyed by a uint64 digest (see internal/hash.Digest) and hold snapshot
// bytes, so a cached result costs its compressed size rather than its float columns.
package memo

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/combocurve/typecurve/format"
	"github.com/combocurve/typecurve/internal/options"
	"github.com/combocurve/typecurve/series"
	"github.com/combocurve/typecurve/snapshot"
)

// DefaultCapacity is the entry limit used by New when capacity is zero.
const DefaultCapacity = 256

type entry struct {
	key  uint64
	data []byte
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Len       int    `json:"len"`
	Capacity  int    `json:"capacity"`
	Bytes     int    `json:"bytes"`
}

// HitRatio returns hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Cache is an LRU of snapshot bytes.
type Cache struct {
	mu          sync.Mutex
	capacity    int
	compression format.CompressionType
	ll          *list.List
	items       map[uint64]*list.Element
	bytes       int

	hits, misses, evictions uint64
}

type config struct {
	compression format.CompressionType
}

// Option configures New.
type Option = options.Option[*config]

// WithCompression sets the codec used by Store. The default is S2.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *config) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = ct
			return nil
		default:
			return fmt.Errorf("memo: unsupported compression %s", ct)
		}
	})
}

// New returns a cache holding at most capacity entries. Zero selects
// DefaultCapacity; a negative capacity disables caching.
func New(capacity int, opts ...Option) (*Cache, error) {
	cfg, err := options.Build(config{compression: format.CompressionS2}, opts...)
	if err != nil {
		return nil, err
	}
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	return &Cache{
		capacity:    capacity,
		compression: cfg.compression,
		ll:          list.New(),
		items:       make(map[uint64]*list.Element),
	}, nil
}

// Get returns the bytes stored under key and marks the entry most recently used.
// The returned slice is shared; callers must not modify it.
func (c *Cache) Get(key uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.ll.MoveToFront(el)

	return el.Value.(*entry).data, true
}

// Put stores data under key, replacing any previous value, and evicts the least
// recently used entries beyond capacity.
func (c *Cache) Put(key uint64, data []byte) {
	if c.capacity < 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		c.bytes += len(data) - len(e.data)
		e.data = data
		c.ll.MoveToFront(el)

		return
	}

	c.items[key] = c.ll.PushFront(&entry{key: key, data: data})
	c.bytes += len(data)
	for c.ll.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *Cache) evictOldest() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	e := c.ll.Remove(el).(*entry)
	delete(c.items, e.key)
	c.bytes -= len(e.data)
	c.evictions++
}

// Store encodes set as a snapshot and puts it under key.
func (c *Cache) Store(key uint64, set []series.Aggregated) error {
	data, err := snapshot.Encode(set, snapshot.WithCompression(c.compression))
	if err != nil {
		return fmt.Errorf("memo: encode %d series: %w", len(set), err)
	}
	c.Put(key, data)

	return nil
}

// Load returns the decoded series stored under key. A corrupted entry is dropped and
// reported as a miss together with the decode error.
func (c *Cache) Load(key uint64) ([]series.Aggregated, bool, error) {
	data, ok := c.Get(key)
	if !ok {
		return nil, false, nil
	}
	set, err := snapshot.Decode(data)
	if err != nil {
		c.Remove(key)
		return nil, false, fmt.Errorf("memo: decode entry %016x: %w", key, err)
	}

	return set, true, nil
}

// Remove deletes key if present.
func (c *Cache) Remove(key uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := c.ll.Remove(el).(*entry)
		delete(c.items, key)
		c.bytes -= len(e.data)
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ll.Len()
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       c.ll.Len(),
		Capacity:  c.capacity,
		Bytes:     c.bytes,
	}
}

// Clear drops every entry and keeps the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	clear(c.items)
	c.bytes = 0
}
