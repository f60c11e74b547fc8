// Package detect remembers which entries carry a URL or TOTP secret so
// listings can show that without decrypting every entry.
//
// Records are stored in <store>/.secrets-cache/content_cache.json keyed by
// entry path. Each record carries the BLAKE3 hash of the .gpg file it was
// derived from and is ignored once the file changes. Only derived flags
// are stored; passwords and TOTP secrets never reach the disk.
package detect

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/tobagin/secrets/internal/entry"
	logger "github.com/tobagin/secrets/internal/logging"
	"github.com/tobagin/secrets/internal/utils"
)

const (
	dirName  = ".secrets-cache"
	fileName = "content_cache.json"
	version  = 1
)

// Record is what the cache knows about one entry.
type Record struct {
	Hash      string    `json:"hash"`
	HasTOTP   bool      `json:"has_totp"`
	HasURL    bool      `json:"has_url"`
	URL       string    `json:"url,omitempty"`
	Username  string    `json:"username,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type document struct {
	Version int               `json:"version"`
	Entries map[string]Record `json:"entries"`
}

// Cache is safe for concurrent use. Changes are kept in memory until Save.
type Cache struct {
	mu       sync.Mutex
	storeDir string
	path     string
	records  map[string]Record
	dirty    bool
	log      logger.Logger
}

// Open loads the detection cache of the store rooted at storeDir. A
// missing or corrupt file yields an empty cache.
func Open(storeDir string, log logger.Logger) *Cache {
	c := &Cache{
		storeDir: storeDir,
		path:     filepath.Join(storeDir, dirName, fileName),
		records:  map[string]Record{},
		log:      log,
	}

	data, err := os.ReadFile(c.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		log.Warnf("Could not read detection cache: %v", err)
	default:
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil || doc.Version != version {
			log.Warnf("Discarding unreadable detection cache %s", c.path)
			break
		}
		if doc.Entries != nil {
			c.records = doc.Entries
		}
	}
	return c
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the record for path if the entry file is unchanged since
// the record was made.
func (c *Cache) Lookup(path string) (Record, bool) {
	c.mu.Lock()
	rec, ok := c.records[path]
	c.mu.Unlock()
	if !ok {
		return Record{}, false
	}

	hash, err := c.hashEntry(path)
	if err != nil || hash != rec.Hash {
		return Record{}, false
	}
	return rec, true
}

// Update derives a record from the decrypted content of path.
func (c *Cache) Update(path, content string) (Record, error) {
	hash, err := c.hashEntry(path)
	if err != nil {
		return Record{}, err
	}

	e := entry.Parse(content)
	rec := Record{
		Hash:      hash,
		HasTOTP:   e.HasTOTP(),
		HasURL:    e.URL != "",
		URL:       e.URL,
		Username:  e.Username,
		UpdatedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.records[path] = rec
	c.dirty = true
	c.mu.Unlock()
	return rec, nil
}

// Remove forgets one entry.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.records[path]; ok {
		delete(c.records, path)
		c.dirty = true
	}
}

// RemoveFolder forgets every entry below folder.
func (c *Cache) RemoveFolder(folder string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.records {
		if strings.HasPrefix(key, folder+"/") {
			delete(c.records, key)
			c.dirty = true
		}
	}
}

// Rename moves the record of one entry.
func (c *Cache) Rename(oldPath, newPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.records[oldPath]; ok {
		delete(c.records, oldPath)
		c.records[newPath] = rec
		c.dirty = true
	}
}

// RenameFolder moves the records of every entry below oldPath.
func (c *Cache) RenameFolder(oldPath, newPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	moved := make(map[string]Record, len(c.records))
	for key, rec := range c.records {
		if strings.HasPrefix(key, oldPath+"/") {
			key = newPath + key[len(oldPath):]
			c.dirty = true
		}
		moved[key] = rec
	}
	c.records = moved
}

// Prune drops records for entries not in existing.
func (c *Cache) Prune(existing []string) int {
	keep := make(map[string]bool, len(existing))
	for _, p := range existing {
		keep[p] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.records {
		if !keep[key] {
			delete(c.records, key)
			removed++
		}
	}
	if removed > 0 {
		c.dirty = true
	}
	return removed
}

// Len returns the number of records.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Save writes pending changes to disk.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(document{Version: version, Entries: c.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode detection cache: %w", err)
	}
	if err := utils.WriteFileAtomic(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save detection cache: %w", err)
	}
	c.dirty = false
	return nil
}

func (c *Cache) hashEntry(path string) (string, error) {
	f, err := os.Open(filepath.Join(c.storeDir, filepath.FromSlash(path)+".gpg"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
