// Package cache puts an in-memory LRU in front of the persistent blob
// cache used for upstream responses.
package cache

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cacher defines the caching interface.
type Cacher interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	SetCache(ctx context.Context, key string, val []byte) error
}

// Tiered serves hits from memory and falls back to a persistent Cacher.
type Tiered struct {
	mem     *lru.Cache[string, []byte]
	backing Cacher
}

// NewTiered creates a cache holding up to size entries in memory. backing
// may be nil for a memory only cache.
func NewTiered(backing Cacher, size int) (*Tiered, error) {
	if size <= 0 {
		size = 64
	}
	mem, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Tiered{mem: mem, backing: backing}, nil
}

func (t *Tiered) GetCache(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := t.mem.Get(key); ok {
		return v, true
	}
	if t.backing == nil {
		return nil, false
	}
	v, ok := t.backing.GetCache(ctx, key)
	if ok {
		t.mem.Add(key, v)
	}
	return v, ok
}

func (t *Tiered) SetCache(ctx context.Context, key string, val []byte) error {
	t.mem.Add(key, val)
	if t.backing == nil {
		return nil
	}
	if err := t.backing.SetCache(ctx, key, val); err != nil {
		slog.Warn("Persistent cache write failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Len is the number of entries held in memory.
func (t *Tiered) Len() int {
	return t.mem.Len()
}
