// Package cache stores rendered artifacts across runs.
//
// Rendering a DOT document to SVG runs Graphviz inside a WebAssembly
// runtime, which dominates the time of small commands. The CLI keeps the
// rendered bytes under a key derived from the DOT text and the output
// format, so rendering the same automaton or graph twice costs one file read.
//
// Two implementations are provided:
//   - [FileCache] keeps entries as files below a directory
//   - [NullCache] stores nothing, for when caching is switched off
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKey returns the key of the artifact rendered from source in the
// given format.
func ArtifactKey(source, format string) string {
	return hashKey("artifact", format, source)
}
