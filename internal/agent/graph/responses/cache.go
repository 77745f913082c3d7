package responses

import (
	"slices"

	"github.com/serenity-chat/server/internal/agent/model"
)

// CacheSize is how many recent replies are remembered per key.
const CacheSize = 3

// CacheKey identifies a template pool.
type CacheKey struct {
	Category  model.Category
	Intensity model.Intensity
}

// Cache remembers the last CacheSize replies per key, oldest evicted first.
// It is not safe for concurrent use; the owning conversation serialises access.
type Cache struct {
	entries map[CacheKey][]string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[CacheKey][]string)}
}

// Recent returns a copy of the remembered replies for key, oldest first.
func (c *Cache) Recent(key CacheKey) []string {
	return slices.Clone(c.entries[key])
}

// Contains reports whether reply was issued recently for key.
func (c *Cache) Contains(key CacheKey, reply string) bool {
	return slices.Contains(c.entries[key], reply)
}

// Push records reply for key, dropping the oldest entry beyond CacheSize.
func (c *Cache) Push(key CacheKey, reply string) {
	entry := append(c.entries[key], reply)
	if len(entry) > CacheSize {
		entry = slices.Clone(entry[len(entry)-CacheSize:])
	}
	c.entries[key] = entry
}

// Len returns the number of keys with remembered replies.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Reset forgets everything.
func (c *Cache) Reset() {
	clear(c.entries)
}
