// Package cache keeps extracted datasets in memory, keyed by the hash of
// the uploaded bytes. Nothing is persisted.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// Entry is a cached dataset.
type Entry struct {
	Dataset  *domain.Dataset
	CachedAt time.Time
	// ExpiresAt is zero when the cache has no TTL.
	ExpiresAt time.Time
	// HitCount is the number of repeat uploads of this dataset.
	HitCount int
}

func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Stats describes cache usage. Hits and misses count uploads only;
// dashboard reads through Get are not included.
type Stats struct {
	Entries    int     `json:"entries"`
	MaxSize    int     `json:"max_size"`
	HitCount   int64   `json:"hit_count"`
	MissCount  int64   `json:"miss_count"`
	HitRatio   float64 `json:"hit_ratio"`
	TTLSeconds float64 `json:"ttl_seconds"`
	Evictions  int64   `json:"evictions"`
}

// DatasetCache is a bounded TTL cache of datasets. When full, the oldest
// entry is evicted.
type DatasetCache struct {
	entries   map[string]Entry
	mutex     sync.RWMutex
	ttl       time.Duration
	maxSize   int
	hitCount  int64
	missCount int64
	evictions int64
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewDatasetCache creates a cache and starts its expiry sweep. A zero ttl
// keeps entries until they are evicted.
func NewDatasetCache(ttl time.Duration, maxSize int, sweepInterval time.Duration) *DatasetCache {
	cache := &DatasetCache{
		entries:  make(map[string]Entry),
		ttl:      ttl,
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
	}

	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	go cache.cleanup(sweepInterval)

	return cache
}

// Get returns the dataset stored under id. It does not touch the hit
// and miss counters.
func (c *DatasetCache) Get(id string) (*domain.Dataset, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[id]
	if !exists || entry.expired(time.Now()) {
		return nil, false
	}
	return entry.Dataset, true
}

// Lookup is Get for uploads: it counts a hit or a miss, so the hit ratio
// is the share of uploads answered without a new extraction.
func (c *DatasetCache) Lookup(id string) (*domain.Dataset, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[id]
	if !exists || entry.expired(time.Now()) {
		c.missCount++
		return nil, false
	}

	entry.HitCount++
	c.entries[id] = entry
	c.hitCount++

	return entry.Dataset, true
}

// Set stores ds under ds.ID.
func (c *DatasetCache) Set(ds *domain.Dataset) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.maxSize <= 0 {
		return
	}

	if _, exists := c.entries[ds.ID]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	now := time.Now()
	entry := Entry{Dataset: ds, CachedAt: now}
	if c.ttl > 0 {
		entry.ExpiresAt = now.Add(c.ttl)
	}
	c.entries[ds.ID] = entry
}

// Delete removes the dataset stored under id.
func (c *DatasetCache) Delete(id string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, id)
}

// List describes every live dataset, newest first.
func (c *DatasetCache) List() []domain.DatasetInfo {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	out := make([]domain.DatasetInfo, 0, len(c.entries))
	for _, entry := range c.entries {
		if entry.expired(now) {
			continue
		}
		info := entry.Dataset.Info()
		info.Cached = true
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadedAt.Equal(out[j].LoadedAt) {
			return out[i].LoadedAt.After(out[j].LoadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of stored entries, expired ones included.
func (c *DatasetCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *DatasetCache) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	totalRequests := c.hitCount + c.missCount
	hitRatio := float64(0)
	if totalRequests > 0 {
		hitRatio = float64(c.hitCount) / float64(totalRequests)
	}

	return Stats{
		Entries:    len(c.entries),
		MaxSize:    c.maxSize,
		HitCount:   c.hitCount,
		MissCount:  c.missCount,
		HitRatio:   hitRatio,
		TTLSeconds: c.ttl.Seconds(),
		Evictions:  c.evictions,
	}
}

func (c *DatasetCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.CachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.CachedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.evictions++
	}
}

// Stop ends the expiry sweep. It is safe to call more than once.
func (c *DatasetCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *DatasetCache) sweep() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}

func (c *DatasetCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopChan:
			return
		}
	}
}
