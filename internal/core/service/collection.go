package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/ports"
	"github.com/hotelops/hms-console/internal/metrics"
)

// Collection mirrors the last successful fetch of one resource plus the
// mutations applied to it since. Each Refresh takes a new generation and
// cancels the one before it; only the newest generation may replace the items.
// A successful mutation also supersedes any refresh still in flight, since that
// refresh's answer predates it.
type Collection[T domain.Entity] struct {
	name   string
	client ports.ResourceClient[T]
	log    zerolog.Logger

	mu     sync.Mutex
	items  []T
	loaded bool
	gen    uint64
	cancel context.CancelFunc
}

func NewCollection[T domain.Entity](name string, client ports.ResourceClient[T], log zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		name:   name,
		client: client,
		log:    log.With().Str("collection", name).Logger(),
	}
}

// Refresh lists the resource. When a newer Refresh or a mutation lands first
// the result is dropped and domain.ErrSuperseded is returned. On failure the
// items are left as they were.
func (c *Collection[T]) Refresh(ctx context.Context) ([]T, error) {
	rctx, gen := c.issue(ctx)

	items, err := c.client.List(rctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		metrics.ListRefreshDiscardedTotal.WithLabelValues(c.name).Inc()
		c.log.Debug().Uint64("generation", gen).Msg("refresh superseded, result discarded")
		return nil, domain.ErrSuperseded
	}
	c.settle()
	if err != nil {
		return nil, err
	}

	c.items = items
	c.loaded = true
	return c.snapshot(), nil
}

// Cancel abandons the in-flight refresh, if any.
func (c *Collection[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.settle()
}

// Create applies draft at the server and appends the server's answer.
func (c *Collection[T]) Create(ctx context.Context, draft T) (T, error) {
	created, err := c.client.Create(ctx, draft)
	if err != nil {
		return created, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersede()
	c.items = append(c.items, created)
	return created, nil
}

// Update overwrites the entity with the same id once the server accepts it.
func (c *Collection[T]) Update(ctx context.Context, entity T) error {
	if err := c.client.Update(ctx, entity); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersede()
	for i := range c.items {
		if c.items[i].EntityID() == entity.EntityID() {
			c.items[i] = entity
		}
	}
	return nil
}

// Remove deletes id at the server and drops it locally.
func (c *Collection[T]) Remove(ctx context.Context, id int64) error {
	if err := c.client.Remove(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersede()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	clear(c.items[len(kept):])
	c.items = kept
	return nil
}

// Items returns a copy of the current list.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Loaded reports whether any refresh has completed.
func (c *Collection[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Find looks up an entity by id in the current list.
func (c *Collection[T]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) issue(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	c.gen++
	rctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return rctx, c.gen
}

// supersede must be called with mu held.
func (c *Collection[T]) supersede() {
	if c.cancel != nil {
		c.gen++
		c.settle()
	}
}

// settle must be called with mu held.
func (c *Collection[T]) settle() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Collection[T]) snapshot() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}
