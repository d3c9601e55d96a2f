package services

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"solareda/pkg/contracts/domain"
)

// CacheKey identifies a loaded dataset by where it came from and what it
// contains. The same bytes under another identity are a separate entry.
type CacheKey struct {
	Identity    string `json:"identity"`
	ContentHash string `json:"content_hash"`
}

// NewCacheKey hashes data with SHA-256.
func NewCacheKey(identity string, data []byte) CacheKey {
	sum := sha256.Sum256(data)
	return CacheKey{Identity: identity, ContentHash: hex.EncodeToString(sum[:])}
}

// ID is the short handle exposed to clients.
func (k CacheKey) ID() string {
	sum := sha256.Sum256([]byte(k.Identity + "\x00" + k.ContentHash))
	return hex.EncodeToString(sum[:8])
}

// CacheEntry is one cached dataset. Derived entries, such as the output of
// the negative-row filter, name the entry they were computed from.
type CacheEntry struct {
	ID       string          `json:"id"`
	Key      CacheKey        `json:"key"`
	Name     string          `json:"name"`
	Rows     int             `json:"rows"`
	Columns  int             `json:"columns"`
	Parent   string          `json:"parent,omitempty"`
	LoadedAt time.Time       `json:"loaded_at"`
	Dataset  *domain.Dataset `json:"-"`

	seq uint64
}

// CacheStats reports cache occupancy and effectiveness.
type CacheStats struct {
	Entries    int           `json:"entries"`
	MaxEntries int           `json:"max_entries"`
	TTL        time.Duration `json:"ttl"`
	Hits       uint64        `json:"hits"`
	Misses     uint64        `json:"misses"`
	Evictions  uint64        `json:"evictions"`
}

// DatasetCache is an in-memory store of loaded datasets keyed by
// (identity, content hash). It holds at most maxEntries entries, evicting
// the oldest, and treats entries older than ttl as absent. Datasets are
// immutable, so entries are shared without copying.
type DatasetCache struct {
	mu         sync.RWMutex
	entries    map[string]*CacheEntry
	maxEntries int
	ttl        time.Duration
	seq        uint64
	hits       uint64
	misses     uint64
	evictions  uint64
	now        func() time.Time
}

// NewDatasetCache creates a cache. A non-positive maxEntries means
// unbounded; a zero ttl means entries never expire.
func NewDatasetCache(maxEntries int, ttl time.Duration) *DatasetCache {
	return &DatasetCache{
		entries:    make(map[string]*CacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the entry for key and counts a hit or miss.
func (c *DatasetCache) Get(key CacheKey) (*CacheEntry, bool) {
	return c.GetByID(key.ID())
}

// GetByID looks an entry up by its client handle.
func (c *DatasetCache) GetByID(id string) (*CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if ok && c.expired(entry) {
		c.removeLocked(id)
		ok = false
	}
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return entry, true
}

// Peek is Get without touching the hit and miss counters.
func (c *DatasetCache) Peek(key CacheKey) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key.ID()]
	if !ok || c.expired(entry) {
		return nil, false
	}
	return entry, true
}

// Put stores ds under key, replacing any previous entry with the same key.
// parent is empty for datasets loaded from a file. Eviction spares the
// parent and its ancestors while anything else can go; a derived entry
// whose parent is no longer cached is stored as a root.
func (c *DatasetCache) Put(key CacheKey, ds *domain.Dataset, parent string) *CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.ID()
	if _, exists := c.entries[id]; exists {
		c.removeLocked(id)
	}
	keep := c.lineageLocked(parent)
	for c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked(keep)
	}
	if _, ok := c.entries[parent]; !ok {
		parent = ""
	}

	c.seq++
	entry := &CacheEntry{
		ID:       id,
		Key:      key,
		Name:     ds.Name(),
		Rows:     ds.Len(),
		Columns:  ds.Width(),
		Parent:   parent,
		LoadedAt: c.now(),
		Dataset:  ds,
		seq:      c.seq,
	}
	c.entries[id] = entry
	return entry
}

// Invalidate drops the entry for key and its derived entries.
func (c *DatasetCache) Invalidate(key CacheKey) int {
	return c.InvalidateID(key.ID())
}

// InvalidateID drops the entry with the given handle and every entry
// derived from it, returning how many were removed.
func (c *DatasetCache) InvalidateID(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; !ok {
		return 0
	}
	return c.removeLocked(id)
}

// InvalidateAll empties the cache and returns the number of entries dropped.
func (c *DatasetCache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]*CacheEntry)
	return n
}

// List returns the live entries, oldest first.
func (c *DatasetCache) List() []*CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*CacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if !c.expired(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Len returns the number of stored entries, expired ones included.
func (c *DatasetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *DatasetCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		Entries:    len(c.entries),
		MaxEntries: c.maxEntries,
		TTL:        c.ttl,
		Hits:       c.hits,
		Misses:     c.misses,
		Evictions:  c.evictions,
	}
}

func (c *DatasetCache) expired(e *CacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.LoadedAt) > c.ttl
}

// evictOldestLocked removes the oldest entry not in keep, falling back to
// the oldest overall when every entry is kept.
func (c *DatasetCache) evictOldestLocked(keep map[string]bool) {
	var oldest, oldestKept *CacheEntry
	for _, e := range c.entries {
		if keep[e.ID] {
			if oldestKept == nil || e.seq < oldestKept.seq {
				oldestKept = e
			}
			continue
		}
		if oldest == nil || e.seq < oldest.seq {
			oldest = e
		}
	}
	if oldest == nil {
		oldest = oldestKept
	}
	if oldest != nil {
		c.evictions += uint64(c.removeLocked(oldest.ID))
	}
}

// lineageLocked returns id and the ids of the entries it derives from.
func (c *DatasetCache) lineageLocked(id string) map[string]bool {
	lineage := make(map[string]bool)
	for id != "" && !lineage[id] {
		e, ok := c.entries[id]
		if !ok {
			break
		}
		lineage[id] = true
		id = e.Parent
	}
	return lineage
}

// removeLocked deletes id and, recursively, the entries derived from it.
func (c *DatasetCache) removeLocked(id string) int {
	if _, ok := c.entries[id]; !ok {
		return 0
	}
	delete(c.entries, id)
	n := 1
	for childID, e := range c.entries {
		if e.Parent == id {
			n += c.removeLocked(childID)
		}
	}
	return n
}
