// Package cache is the read-through cache in front of per-user list reads.
// Entries are keyed by (kind, user) and a write to a kind drops every entry
// of that kind.
package cache

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type Kind string

const (
	Cart          Kind = "cart"
	Appointments  Kind = "appointments"
	SymptomChecks Kind = "symptom_checks"
	HealthRecords Kind = "health_records"
	Orders        Kind = "orders"
)

type key struct {
	kind Kind
	user uuid.UUID
}

type Cache struct {
	mu      sync.RWMutex
	entries map[key]any
	gens    map[Kind]uint64
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{
		entries: make(map[key]any),
		gens:    make(map[Kind]uint64),
	}
}

// Invalidate drops every cached entry of kind.
func (c *Cache) Invalidate(kinds ...Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, kind := range kinds {
		c.gens[kind]++
		for k := range c.entries {
			if k.kind == kind {
				delete(c.entries, k)
			}
		}
	}
}

func (c *Cache) lookup(k key) (any, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[k]
	return v, c.gens[k.kind], ok
}

// store keeps v only if no invalidation of its kind happened since gen was read.
func (c *Cache) store(k key, gen uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[k.kind] == gen {
		c.entries[k] = v
	}
}

// Load returns the cached value for (kind, user) or calls fetch once for all
// concurrent callers of the same generation and caches its result. The shared
// fetch does not inherit the first caller's cancellation.
func Load[T any](ctx context.Context, c *Cache, kind Kind, user uuid.UUID, fetch func(context.Context) (T, error)) (T, error) {
	k := key{kind: kind, user: user}
	if v, _, ok := c.lookup(k); ok {
		return v.(T), nil
	}
	_, gen, _ := c.lookup(k)

	flight := string(kind) + "/" + user.String() + "/" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		fetched, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(k, gen, fetched)
		return fetched, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
