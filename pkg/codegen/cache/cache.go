package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/SpineEventEngine/base-sub010/pkg/codegen/artifacts"
)

const (
	// DefaultMaxEntries is the default number of remembered passes
	DefaultMaxEntries = 16
	// DefaultTTL is the default lifetime of a remembered pass
	DefaultTTL = 30 * time.Minute
)

// Config holds cache configuration
type Config struct {
	MaxEntries int           // Max number of cached passes (default: 16)
	TTL        time.Duration // TTL for cache entries (default: 30 minutes)
}

// DefaultConfig returns default cache configuration
func DefaultConfig() *Config {
	return &Config{
		MaxEntries: DefaultMaxEntries,
		TTL:        DefaultTTL,
	}
}

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	HitRate   float64
	ItemCount int
}

// Cache is an in-memory LRU of generation results with expiry.
// It is safe for concurrent use.
type Cache struct {
	lru    *expirable.LRU[string, []artifacts.Artifact]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache; a nil config uses the defaults
func New(config *Config) *Cache {
	if config == nil {
		config = DefaultConfig()
	}
	size := config.MaxEntries
	if size <= 0 {
		size = DefaultMaxEntries
	}
	return &Cache{
		lru: expirable.NewLRU[string, []artifacts.Artifact](size, nil, config.TTL),
	}
}

// Get returns the artifacts remembered for the key
func (c *Cache) Get(key Key) ([]artifacts.Artifact, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	arts, ok := c.lru.Get(key.String())
	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}
	c.hits.Add(1)
	return append([]artifacts.Artifact(nil), arts...), nil
}

// Set remembers the artifacts of a pass
func (c *Cache) Set(key Key, arts []artifacts.Artifact) error {
	if err := key.Validate(); err != nil {
		return err
	}
	c.lru.Add(key.String(), append([]artifacts.Artifact(nil), arts...))
	return nil
}

// Delete forgets the key
func (c *Cache) Delete(key Key) {
	c.lru.Remove(key.String())
}

// Purge forgets everything
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Stats returns cache statistics
func (c *Cache) Stats() Stats {
	stats := Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		ItemCount: c.lru.Len(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}
