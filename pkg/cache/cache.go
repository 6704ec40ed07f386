// Package cache provides byte caches for the primary store transport.
//
// A [Cache] stores opaque byte slices under string keys with an optional
// TTL. Three backends exist: [FileCache] for the CLI, [RedisCache] for
// shared deployments of the HTTP API, and [NullCache] to disable caching.
// A [Keyer] derives keys so that different primary repositories never
// share entries.
package cache

import (
	"context"
	"time"
)

// Cache is a byte cache. Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// MetadataKey keys a maven-metadata.xml document.
	MetadataKey(repoURL, group, name string) string
	// DescriptorKey keys a descriptor (pom) document.
	DescriptorKey(repoURL, coordinate string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// MetadataKey hashes the repository URL and coordinates.
func (DefaultKeyer) MetadataKey(repoURL, group, name string) string {
	return hashKey("metadata", repoURL, group, name)
}

// DescriptorKey hashes the repository URL and coordinate.
func (DefaultKeyer) DescriptorKey(repoURL, coordinate string) string {
	return hashKey("descriptor", repoURL, coordinate)
}
