// Package cache stores intermediate and final render results.
//
// The render pipeline is content-addressed: a chart file hashes to a chart
// key, its resolved layout to a layout key and every output format to an
// artifact key. Any [Cache] implementation can back the pipeline:
//   - [FileCache] for the CLI, under ~/.cache/tickplot
//   - [RedisCache] for the HTTP server when several instances share work
//   - [NullCache] to disable caching
//
// Keys come from a [Keyer]; wrap one in a [ScopedKeyer] to keep separate
// namespaces in a shared backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLLayout bounds how long resolved layouts are kept. Layouts only
	// depend on the chart content, so they can live long.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact bounds how long rendered outputs are kept.
	TTLArtifact = 24 * time.Hour
)
