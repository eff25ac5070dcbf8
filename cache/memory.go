package cache

import (
	"container/list"
	"sync"
	"time"
)

// Entry is a stored snapshot. It is immutable once stored; Set always
// creates a new Entry.
type Entry[T any] struct {
	Key       string
	Data      T
	Timestamp time.Time
}

// Age returns how old the entry is at now.
func (e *Entry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Stats is a diagnostic snapshot of a cache.
type Stats struct {
	Size      int
	MaxSize   int
	Keys      []string // insertion order
	Hits      int64
	Misses    int64
	Evictions int64
}

// Option configures a Memory cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Memory is an in-memory TTL cache with insertion-order eviction.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Expiry: Get deletes and misses on entries older than TTL.
// - Bounds: after Set, Size never exceeds MaxSize when MaxSize > 0.
type Memory[T any] struct {
	mu      sync.Mutex
	config  Config
	now     func() time.Time
	entries map[string]*list.Element
	order   *list.List // front = first inserted

	hits      int64
	misses    int64
	evictions int64
}

// New creates a new in-memory cache with the given config.
func New[T any](config Config, opts ...Option) *Memory[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory[T]{
		config:  config,
		now:     o.now,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Config returns the cache configuration.
func (c *Memory[T]) Config() Config {
	return c.config
}

// Get returns the data stored under key if it has not outlived the TTL.
// Expired entries are removed.
func (c *Memory[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	entry := el.Value.(*Entry[T])
	if entry.Age(c.now()) > c.config.TTL {
		// Expired - clean up lazily
		c.order.Remove(el)
		delete(c.entries, key)
		c.misses++
		return zero, false
	}

	c.hits++
	return entry.Data, true
}

// Set stores data under key. Overwriting keeps the key's original
// insertion position. When MaxSize is exceeded, the first-inserted entry is
// evicted.
func (c *Memory[T]) Set(key string, data T) {
	entry := &Entry[T]{Key: key, Data: data, Timestamp: c.now()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value = entry
		return
	}
	c.entries[key] = c.order.PushBack(entry)

	if c.config.Bounded() && len(c.entries) > c.config.MaxSize {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*Entry[T]).Key)
		c.evictions++
	}
}

// Delete removes key. Returns true if it was present.
func (c *Memory[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.entries, key)
	return true
}

// CheckStaleness reports the entry's age against the TTL and the business
// thresholds. It does not remove expired entries.
func (c *Memory[T]) CheckStaleness(key string) Staleness {
	c.mu.Lock()
	el, ok := c.entries[key]
	var entry *Entry[T]
	if ok {
		entry = el.Value.(*Entry[T])
	}
	c.mu.Unlock()

	if !ok {
		return missingStaleness()
	}
	return assessStaleness(entry.Age(c.now()), c.config.TTL)
}

// Clear removes all entries.
func (c *Memory[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the current number of entries, expired or not.
func (c *Memory[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the held keys in insertion order.
func (c *Memory[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keysLocked()
}

// Stats returns a snapshot for testing and diagnostics.
func (c *Memory[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:      len(c.entries),
		MaxSize:   c.config.MaxSize,
		Keys:      c.keysLocked(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *Memory[T]) keysLocked() []string {
	keys := make([]string, 0, len(c.entries))
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*Entry[T]).Key)
	}
	return keys
}
