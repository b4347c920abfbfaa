// Package cache stores rendered chart artifacts.
//
// A render is a pure function of its inputs, so an artifact can be reused
// whenever the same parameters, seed, format and size are requested again.
// [Keyer] turns those inputs into a deterministic key; [Cache] stores the
// bytes under it.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for several `wlrsim serve` instances
//
// # Usage
//
//	c, err := cache.NewFileCache(cache.DefaultDir())
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.ArtifactKeyOpts{
//	    Params: params, Seed: 0, Format: "svg", Width: 10, Height: 6,
//	})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data
//	}
//
// Cache failures are never fatal to a render; callers log them and carry on.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration. Implementations are safe
// for concurrent use.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
