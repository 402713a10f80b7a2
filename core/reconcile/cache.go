package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc loads the full content of an Index.
type LoadFunc[V any] func(ctx context.Context) (map[string]V, error)

// Index is a TTL-cached, read-only map loaded in one query.
// It is used for reference data the sync only reads, such as country codes.
type Index[V any] struct {
	load LoadFunc[V]
	ttl  time.Duration

	mu    sync.RWMutex
	data  map[string]V
	built time.Time
	sf    singleflight.Group
}

// NewIndex creates an Index. A zero ttl disables caching: every Get reloads.
func NewIndex[V any](ttl time.Duration, load LoadFunc[V]) *Index[V] {
	return &Index[V]{load: load, ttl: ttl}
}

// IsExpired returns true if the cached map must be rebuilt.
func (i *Index[V]) IsExpired() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.ttl == 0 || i.data == nil {
		return true // No caching
	}
	return time.Since(i.built) > i.ttl
}

// Get returns the cached map, rebuilding it if expired.
// Uses singleflight to prevent cache stampedes.
func (i *Index[V]) Get(ctx context.Context) (map[string]V, error) {
	if !i.IsExpired() {
		i.mu.RLock()
		defer i.mu.RUnlock()
		return i.data, nil
	}

	result, err, _ := i.sf.Do("index", func() (any, error) {
		// Double-check after acquiring singleflight lock
		if !i.IsExpired() {
			i.mu.RLock()
			defer i.mu.RUnlock()
			return i.data, nil
		}

		data, err := i.load(ctx)
		if err != nil {
			return nil, err
		}

		i.mu.Lock()
		i.data = data
		i.built = time.Now()
		i.mu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(map[string]V), nil
}

// Invalidate drops the cached map so the next Get reloads it.
func (i *Index[V]) Invalidate() {
	i.mu.Lock()
	i.data = nil
	i.mu.Unlock()
}
