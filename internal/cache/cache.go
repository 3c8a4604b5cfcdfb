// Package cache memoizes document fingerprints behind a pluggable backend.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/gcbaptista/go-winnow/model"
)

// Backend stores fingerprints by key. Implementations must be safe for
// concurrent use.
type Backend interface {
	Get(ctx context.Context, key model.FingerprintKey) ([]model.Fingerprint, bool, error)
	Put(ctx context.Context, key model.FingerprintKey, fingerprints []model.Fingerprint) error
	// DeleteDocument drops the fingerprints of a document under every signature.
	DeleteDocument(ctx context.Context, documentID string) error
}

// ComputeFunc produces the fingerprints for a key that is not cached yet.
type ComputeFunc func(ctx context.Context) ([]model.Fingerprint, error)

// Stats counts cache lookups since creation.
type Stats struct {
	Hits         int64 `json:"hits"`
	Misses       int64 `json:"misses"`
	Computations int64 `json:"computations"`
}

// Cache guarantees that concurrent callers asking for the same key share a
// single computation.
type Cache struct {
	backend Backend
	group   singleflight.Group

	hits         atomic.Int64
	misses       atomic.Int64
	computations atomic.Int64
}

// New creates a cache over backend.
func New(backend Backend) *Cache {
	return &Cache{backend: backend}
}

// GetOrCompute returns the cached fingerprints for key, computing and storing
// them first if needed. compute runs at most once per key while its result is
// cached; a failed computation is not cached and the next caller retries.
func (c *Cache) GetOrCompute(ctx context.Context, key model.FingerprintKey, compute ComputeFunc) ([]model.Fingerprint, error) {
	if fps, ok, err := c.backend.Get(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to read fingerprints for %s: %w", key, err)
	} else if ok {
		c.hits.Add(1)
		return fps, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		// Another flight may have stored the value since the first lookup
		if fps, ok, err := c.backend.Get(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to read fingerprints for %s: %w", key, err)
		} else if ok {
			c.hits.Add(1)
			return fps, nil
		}

		c.misses.Add(1)
		c.computations.Add(1)
		fps, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.backend.Put(ctx, key, fps); err != nil {
			return nil, fmt.Errorf("failed to store fingerprints for %s: %w", key, err)
		}
		return fps, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Fingerprint), nil
}

// Invalidate forgets every cached fingerprint set of a document.
func (c *Cache) Invalidate(ctx context.Context, documentID string) error {
	return c.backend.DeleteDocument(ctx, documentID)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Computations: c.computations.Load(),
	}
}
