// Package cache remembers which proof documents were already verified.
//
// Only accepted documents are cached: a rejected proof is verified again on
// every run so that the full located error can be reported.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const cacheFileName = "verify_cache.gob"

// DefaultMaxAge is how long an entry stays valid unless SetMaxAge is called.
const DefaultMaxAge = 7 * 24 * time.Hour

// Entry is the remembered outcome for one document.
type Entry struct {
	Hash         string
	Fingerprint  string
	Grounded     bool
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache is a file-backed map from document path to Entry.
type Cache struct {
	dir     string
	entries map[string]Entry
	mutex   sync.Mutex
	maxAge  time.Duration
}

// New opens the cache stored in dir, creating the directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:     dir,
		entries: make(map[string]Entry),
		maxAge:  DefaultMaxAge,
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.dir, cacheFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

func (c *Cache) save() error {
	file, err := os.Create(filepath.Join(c.dir, cacheFileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// Set records that the document at path was accepted under fingerprint.
func (c *Cache) Set(path, fingerprint string, grounded bool) error {
	hash, err := fileHash(path)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[path] = Entry{
		Hash:         hash,
		Fingerprint:  fingerprint,
		Grounded:     grounded,
		CreatedAt:    now,
		LastAccessed: now,
	}
	return c.save()
}

// Get returns the remembered grounding of the document at path. The entry
// is discarded if the file changed, the fingerprint differs or it expired.
func (c *Cache) Get(path, fingerprint string) (grounded bool, ok bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[path]
	if !exists {
		return false, false
	}
	if c.isEntryInvalid(path, fingerprint, entry) {
		delete(c.entries, path)
		return false, false
	}

	entry.LastAccessed = time.Now()
	c.entries[path] = entry
	return entry.Grounded, true
}

func (c *Cache) isEntryInvalid(path, fingerprint string, entry Entry) bool {
	if time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}
	if entry.Fingerprint != fingerprint {
		return true
	}
	hash, err := fileHash(path)
	return err != nil || hash != entry.Hash
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

func (c *Cache) SetMaxAge(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.maxAge = d
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]Entry)
	return c.save()
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
