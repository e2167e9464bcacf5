// Package viewcache stores rendered read views keyed by record URN.
package viewcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds serialized views. Implementations must be safe for concurrent use.
// A miss and a backend failure both report ok=false; callers rebuild the view.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Delete(ctx context.Context, keys ...string)
}

type memory struct {
	c *gocache.Cache
}

// NewMemory returns a process-local cache with the given entry lifetime.
func NewMemory(ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &memory{c: gocache.New(ttl, ttl*2)}
}

func (m *memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, found := m.c.Get(key)
	if !found {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (m *memory) Set(_ context.Context, key string, val []byte) {
	m.c.Set(key, val, gocache.DefaultExpiration)
}

func (m *memory) Delete(_ context.Context, keys ...string) {
	for _, k := range keys {
		m.c.Delete(k)
	}
}

type nop struct{}

// Nop never stores anything.
func Nop() Cache { return nop{} }

func (nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (nop) Set(context.Context, string, []byte)        {}
func (nop) Delete(context.Context, ...string)          {}

// ScoreSetKey is the cache key of the public view of a score set.
func ScoreSetKey(urn string) string {
	return "scoreset:" + urn
}
