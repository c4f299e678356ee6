// Package loader coalesces single-key lookups made while resolving one
// request into bulk fetches, and caches the results for that request.
package loader

import (
	"context"
	"fmt"
	"sync"
)

// BatchFunc fetches values for keys. The result must have one entry per key,
// in key order; a missing entity is the zero value of V.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) ([]V, error)

// Thunk blocks until the value for a queued key is available.
type Thunk[V any] func() (V, error)

type result[V any] struct {
	value V
	err   error
	done  chan struct{}
}

type queued[K comparable, V any] struct {
	key K
	res *result[V]
}

// Loader batches and caches lookups of V by K. A Loader is meant to live for
// a single request and must not be shared between requests.
type Loader[K comparable, V any] struct {
	fetch BatchFunc[K, V]

	mu      sync.Mutex
	cache   map[K]*result[V]
	pending []queued[K, V]
}

// New creates a Loader backed by fetch.
func New[K comparable, V any](fetch BatchFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		fetch: fetch,
		cache: make(map[K]*result[V]),
	}
}

// Load queues key and returns a thunk for its value. Nothing is fetched until
// a thunk is called; the first call dispatches every key queued so far.
func (l *Loader[K, V]) Load(ctx context.Context, key K) Thunk[V] {
	l.mu.Lock()
	r := l.enqueue(key)
	l.mu.Unlock()

	return func() (V, error) {
		l.Dispatch(ctx)
		return r.wait(ctx)
	}
}

// LoadMany queues keys and resolves them with at most one batch.
// The returned slice has one value per key, duplicates included.
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, error) {
	l.mu.Lock()
	results := make([]*result[V], len(keys))
	for i, key := range keys {
		results[i] = l.enqueue(key)
	}
	l.mu.Unlock()

	l.Dispatch(ctx)

	values := make([]V, len(keys))
	for i, r := range results {
		v, err := r.wait(ctx)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Dispatch fetches every queued key in a single batch.
func (l *Loader[K, V]) Dispatch(ctx context.Context) {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	keys := make([]K, len(batch))
	for i, q := range batch {
		keys[i] = q.key
	}

	if len(keys) == 0 {
		return
	}

	values, err := l.fetch(ctx, keys)
	if err == nil && len(values) != len(keys) {
		err = fmt.Errorf("loader: batch returned %d values for %d keys", len(values), len(keys))
	}

	if err != nil {
		// Failed keys are forgotten so a later request can retry them.
		l.mu.Lock()
		for _, q := range batch {
			if l.cache[q.key] == q.res {
				delete(l.cache, q.key)
			}
		}
		l.mu.Unlock()

		for _, q := range batch {
			q.res.err = err
			close(q.res.done)
		}
		return
	}

	for i, q := range batch {
		q.res.value = values[i]
		close(q.res.done)
	}
}

// Prime stores value for key unless key is already cached.
func (l *Loader[K, V]) Prime(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.cache[key]; ok {
		return
	}
	r := &result[V]{value: value, done: make(chan struct{})}
	close(r.done)
	l.cache[key] = r
}

// Clear drops key from the cache so the next Load fetches it again.
func (l *Loader[K, V]) Clear(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.cache, key)
}

// enqueue must be called with l.mu held.
func (l *Loader[K, V]) enqueue(key K) *result[V] {
	if r, ok := l.cache[key]; ok {
		return r
	}
	r := &result[V]{done: make(chan struct{})}
	l.cache[key] = r
	l.pending = append(l.pending, queued[K, V]{key: key, res: r})
	return r
}

func (r *result[V]) wait(ctx context.Context) (V, error) {
	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
