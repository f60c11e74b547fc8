package store

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// CacheOptions bounds the content cache. The Bulk values apply while at
// least one bulk decryption is in progress.
type CacheOptions struct {
	Disabled       bool
	TTL            time.Duration
	BulkTTL        time.Duration
	MaxEntries     int
	BulkMaxEntries int
}

// DefaultCacheOptions returns a one hour TTL (two in bulk mode) and room for
// 1000 entries (2000 in bulk mode).
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		TTL:            time.Hour,
		BulkTTL:        2 * time.Hour,
		MaxEntries:     1000,
		BulkMaxEntries: 2000,
	}
}

// CacheEntry is one decrypted entry held in memory.
type CacheEntry struct {
	Path      string
	Content   string
	CachedAt  time.Time
	FileMtime time.Time
}

// ContentCache maps entry paths to decrypted content. It is safe for
// concurrent use.
type ContentCache struct {
	mu        sync.Mutex
	root      string
	opts      CacheOptions
	entries   map[string]CacheEntry
	bulkDepth int

	now func() time.Time
}

func NewContentCache(root string, opts CacheOptions) *ContentCache {
	d := DefaultCacheOptions()
	if opts.TTL <= 0 {
		opts.TTL = d.TTL
	}
	if opts.BulkTTL < opts.TTL {
		opts.BulkTTL = opts.TTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = d.MaxEntries
	}
	if opts.BulkMaxEntries < opts.MaxEntries {
		opts.BulkMaxEntries = opts.MaxEntries
	}
	return &ContentCache{
		root:    root,
		opts:    opts,
		entries: make(map[string]CacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached content for path. Expired entries and entries
// whose file changed on disk are removed and reported as a miss.
func (c *ContentCache) Get(path string) (string, bool) {
	if c.opts.Disabled {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[path]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.CachedAt) > c.ttl() {
		delete(c.entries, path)
		return "", false
	}
	if !c.fileMtime(path).Equal(entry.FileMtime) {
		delete(c.entries, path)
		return "", false
	}
	return entry.Content, true
}

// Put stores content for path, first dropping expired entries and then
// the oldest entries beyond the size limit.
func (c *ContentCache) Put(path, content string) {
	if c.opts.Disabled {
		return
	}

	mtime := c.fileMtime(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[path] = CacheEntry{
		Path:      path,
		Content:   content,
		CachedAt:  now,
		FileMtime: mtime,
	}
	c.purgeExpired(now)
	c.evictOldest()
}

// Invalidate removes path from the cache.
func (c *ContentCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// InvalidateFolder removes every entry inside folder.
func (c *ContentCache) InvalidateFolder(folder string) {
	prefix := folder + "/"
	c.mu.Lock()
	defer c.mu.Unlock()
	for path := range c.entries {
		if strings.HasPrefix(path, prefix) {
			delete(c.entries, path)
		}
	}
}

// InvalidateAll empties the cache.
func (c *ContentCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]CacheEntry)
}

// BeginBulk switches to the bulk TTL and size limit until the returned
// function is called. Calls nest.
func (c *ContentCache) BeginBulk() func() {
	c.mu.Lock()
	c.bulkDepth++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.bulkDepth--
			c.mu.Unlock()
		})
	}
}

// Len returns the number of cached entries, including stale ones not yet
// purged.
func (c *ContentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// BulkMode reports whether a bulk decryption is in progress.
func (c *ContentCache) BulkMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bulkDepth > 0
}

func (c *ContentCache) ttl() time.Duration {
	if c.bulkDepth > 0 {
		return c.opts.BulkTTL
	}
	return c.opts.TTL
}

func (c *ContentCache) maxEntries() int {
	if c.bulkDepth > 0 {
		return c.opts.BulkMaxEntries
	}
	return c.opts.MaxEntries
}

func (c *ContentCache) purgeExpired(now time.Time) {
	ttl := c.ttl()
	for path, entry := range c.entries {
		if now.Sub(entry.CachedAt) > ttl {
			delete(c.entries, path)
		}
	}
}

func (c *ContentCache) evictOldest() {
	excess := len(c.entries) - c.maxEntries()
	if excess <= 0 {
		return
	}

	ordered := make([]CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CachedAt.Before(ordered[j].CachedAt)
	})
	for _, entry := range ordered[:excess] {
		delete(c.entries, entry.Path)
	}
}

// fileMtime returns the .gpg file's modification time, or the zero time
// when the file cannot be read.
func (c *ContentCache) fileMtime(path string) time.Time {
	info, err := os.Stat(entryFile(c.root, path))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
