package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/eoinhurrell/mindmeld/internal/clock"
)

// Entry represents a single cache entry
type Entry[V any] struct {
	Key         string
	Value       V
	ExpiresAt   time.Time
	CreatedAt   time.Time
	AccessedAt  time.Time
	AccessCount int64
	element     *list.Element
}

func (e *Entry[V]) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Cache provides an in-memory cache with LRU eviction and TTL support
type Cache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]*Entry[V]
	lruList    *list.List
	maxSize    int
	defaultTTL time.Duration
	clock      clock.Clock
	stats      Stats
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Evictions   int64   `json:"evictions"`
	Expirations int64   `json:"expirations"`
	Sets        int64   `json:"sets"`
	Deletes     int64   `json:"deletes"`
	Size        int64   `json:"size"`
	MaxSize     int64   `json:"max_size"`
	HitRatio    float64 `json:"hit_ratio"`
}

// Config holds cache configuration options
type Config[V any] struct {
	MaxSize    int
	DefaultTTL time.Duration
	Clock      clock.Clock
}

// DefaultConfig returns sensible defaults for cache configuration
func DefaultConfig[V any]() Config[V] {
	return Config[V]{
		MaxSize:    1000,
		DefaultTTL: 1 * time.Hour,
	}
}

// New creates a new cache with the given configuration
func New[V any](config Config[V]) *Cache[V] {
	if config.MaxSize <= 0 {
		config.MaxSize = 1000
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 1 * time.Hour
	}

	return &Cache[V]{
		entries:    make(map[string]*Entry[V]),
		lruList:    list.New(),
		maxSize:    config.MaxSize,
		defaultTTL: config.DefaultTTL,
		clock:      clock.Or(config.Clock),
		stats:      Stats{MaxSize: int64(config.MaxSize)},
	}
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, exists := c.entries[key]
	if !exists {
		c.stats.Misses++
		c.updateHitRatio()
		return zero, false
	}

	now := c.clock.Now()
	if entry.expired(now) {
		c.removeEntryLocked(key, entry)
		c.stats.Misses++
		c.stats.Expirations++
		c.updateHitRatio()
		return zero, false
	}

	entry.AccessedAt = now
	entry.AccessCount++
	c.lruList.MoveToFront(entry.element)

	c.stats.Hits++
	c.updateHitRatio()
	return entry.Value, true
}

// Set stores a value in the cache with default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value in the cache with custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if existing, exists := c.entries[key]; exists {
		existing.Value = value
		existing.ExpiresAt = expiresAt
		existing.AccessedAt = now
		existing.AccessCount++
		c.lruList.MoveToFront(existing.element)
		return
	}

	entry := &Entry[V]{
		Key:         key,
		Value:       value,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		AccessedAt:  now,
		AccessCount: 1,
	}
	entry.element = c.lruList.PushFront(entry)
	c.entries[key] = entry

	c.stats.Sets++
	c.stats.Size = int64(len(c.entries))

	c.evictIfNeeded()
}

// Delete removes a value from the cache
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return false
	}

	c.removeEntryLocked(key, entry)
	c.stats.Deletes++
	return true
}

// Stats returns current cache statistics
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = int64(len(c.entries))
	return stats
}

// ExpireExpiredEntries removes all expired entries from the cache
func (c *Cache[V]) ExpireExpiredEntries() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	var expired []string
	for key, entry := range c.entries {
		if entry.expired(now) {
			expired = append(expired, key)
		}
	}

	for _, key := range expired {
		c.removeEntryLocked(key, c.entries[key])
		c.stats.Expirations++
	}

	return len(expired)
}

// StartCleanupTimer periodically removes expired entries until ctx is done.
// A non-positive interval disables cleanup.
func (c *Cache[V]) StartCleanupTimer(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.ExpireExpiredEntries()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// GetOrSet retrieves a value or computes and stores it when missing.
// The bool reports whether the value came from the cache.
func (c *Cache[V]) GetOrSet(key string, provider func() (V, error)) (V, bool, error) {
	if value, ok := c.Get(key); ok {
		return value, true, nil
	}

	value, err := provider()
	if err != nil {
		var zero V
		return zero, false, err
	}

	c.Set(key, value)
	return value, false, nil
}

// removeEntryLocked removes an entry (must be called with lock held)
func (c *Cache[V]) removeEntryLocked(key string, entry *Entry[V]) {
	delete(c.entries, key)
	c.lruList.Remove(entry.element)
	c.stats.Size = int64(len(c.entries))
}

// evictIfNeeded evicts least recently used entries if cache is over capacity
func (c *Cache[V]) evictIfNeeded() {
	for len(c.entries) > c.maxSize {
		oldest := c.lruList.Back()
		if oldest == nil {
			break
		}

		entry := oldest.Value.(*Entry[V])
		c.removeEntryLocked(entry.Key, entry)
		c.stats.Evictions++
	}
}

func (c *Cache[V]) updateHitRatio() {
	total := c.stats.Hits + c.stats.Misses
	if total > 0 {
		c.stats.HitRatio = float64(c.stats.Hits) / float64(total)
	}
}

// ContentKey hashes text into a fixed-size cache key
func ContentKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
