package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheSchemaVersion is bumped whenever the cache layout changes.
const cacheSchemaVersion uint16 = 1

// CacheEntry describes the last content written for one file.
type CacheEntry struct {
	Unit string `msgpack:"unit"`
	Hash string `msgpack:"hash"`
	Size int    `msgpack:"size"`
}

type cachePayload struct {
	Schema  uint16                `msgpack:"schema"`
	Entries map[string]CacheEntry `msgpack:"entries"`
}

// Cache remembers the content hash of every written unit, keyed by file
// path, so that unchanged units are not rewritten. It is safe for concurrent
// use and a nil *Cache is a valid, always-missing cache.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]CacheEntry
	dirty   bool
}

// OpenCache reads the cache at path. A missing file, or a file written by
// another cache version, yields an empty cache.
func OpenCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]CacheEntry)}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("derive: open cache: %w", err)
	}
	defer f.Close()
	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("derive: decode cache %s: %w", path, err)
	}
	if payload.Schema == cacheSchemaVersion && payload.Entries != nil {
		c.entries = payload.Entries
	}
	return c, nil
}

// Hash returns the content hash stored in cache entries.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the entry of a file.
func (c *Cache) Lookup(file string) (CacheEntry, bool) {
	if c == nil {
		return CacheEntry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[file]
	return e, ok
}

// Fresh reports whether file was last written with content and still holds
// it on disk.
func (c *Cache) Fresh(file string, content []byte) bool {
	e, ok := c.Lookup(file)
	if !ok || e.Hash != Hash(content) || e.Size != len(content) {
		return false
	}
	info, err := os.Stat(file)
	if err != nil || info.Size() != int64(e.Size) {
		return false
	}
	onDisk, err := os.ReadFile(file)
	return err == nil && Hash(onDisk) == e.Hash
}

// Store records the content written for a file.
func (c *Cache) Store(file, unit string, content []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[file] = CacheEntry{Unit: unit, Hash: Hash(content), Size: len(content)}
	c.dirty = true
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache back if it changed. The file is replaced
// atomically.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("derive: save cache: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(c.path), ".derive-cache-*")
	if err != nil {
		return fmt.Errorf("derive: save cache: %w", err)
	}
	defer os.Remove(f.Name())
	enc := msgpack.NewEncoder(f)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&cachePayload{Schema: cacheSchemaVersion, Entries: c.entries}); err != nil {
		f.Close()
		return fmt.Errorf("derive: encode cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("derive: save cache: %w", err)
	}
	if err := os.Rename(f.Name(), c.path); err != nil {
		return fmt.Errorf("derive: save cache: %w", err)
	}
	c.dirty = false
	return nil
}
