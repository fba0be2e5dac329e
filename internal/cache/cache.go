// Package cache provides an on-disk, content-addressed store of fetched
// article documents, fronted by a small in-memory LRU.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"wikirace-go-solver/internal/models"
)

// namespace tags the key space so other record kinds can share a directory.
const namespace = "html:"

// DefaultMemoryEntries bounds the in-memory tier when Open is given zero.
const DefaultMemoryEntries = 256

// Cache maps article IDs to previously fetched documents. Disk entries never
// expire. It is safe for concurrent use.
type Cache struct {
	dir string
	mem *lru.Cache[string, models.Document]
}

// record is the on-disk JSON layout.
type record struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

// Open ensures dir exists and returns a cache rooted there. memEntries < 0
// disables the memory tier.
func Open(dir string, memEntries int) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir: %w", err)
	}
	c := &Cache{dir: dir}
	if memEntries == 0 {
		memEntries = DefaultMemoryEntries
	}
	if memEntries > 0 {
		mem, err := lru.New[string, models.Document](memEntries)
		if err != nil {
			return nil, fmt.Errorf("cache: memory tier: %w", err)
		}
		c.mem = mem
	}
	return c, nil
}

// Dir returns the storage directory.
func (c *Cache) Dir() string { return c.dir }

// Key returns the storage key for an article ID: the first 32 hex chars of
// sha256("html:" + id).
func Key(id string) string {
	sum := sha256.Sum256([]byte(namespace + id))
	return hex.EncodeToString(sum[:])[:32]
}

func (c *Cache) path(id string) string {
	return filepath.Join(c.dir, Key(id)+".json")
}

// Get returns the cached document for id. A miss is (zero, false, nil). An
// unreadable or corrupt record is reported as a miss together with the error.
func (c *Cache) Get(id string) (models.Document, bool, error) {
	if c.mem != nil {
		if doc, ok := c.mem.Get(id); ok {
			return doc, true, nil
		}
	}

	data, err := os.ReadFile(c.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return models.Document{}, false, nil
	}
	if err != nil {
		return models.Document{}, false, fmt.Errorf("cache: read %s: %w", id, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.Document{}, false, fmt.Errorf("cache: decode %s: %w", id, err)
	}
	doc := models.Document{Body: []byte(rec.HTML), URL: rec.URL}
	if c.mem != nil {
		c.mem.Add(id, doc)
	}
	return doc, true, nil
}

// Put stores doc under id. The record is written to a temp file and renamed
// into place, so readers never observe a partial write; of two concurrent
// puts for the same id the later rename wins.
func (c *Cache) Put(id string, doc models.Document) error {
	data, err := json.Marshal(record{HTML: string(doc.Body), URL: doc.URL})
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(c.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("cache: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: write %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: close %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), c.path(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: rename %s: %w", id, err)
	}

	if c.mem != nil {
		c.mem.Add(id, doc)
	}
	return nil
}
