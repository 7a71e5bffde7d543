// Package cache provides caching abstractions for layout and render results.
//
// The package defines a generic Cache interface with pluggable backends:
//   - FileCache: persistent file-based cache for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: no-op cache for testing or disabled caching
//
// Cache keys are derived from content hashes so that identical inputs hit
// the same entry regardless of where they were computed. The Keyer
// interface centralizes key construction; ScopedKeyer adds a namespace
// prefix for multi-tenant deployments.
package cache

import (
	"context"
	"time"
)

// TTL constants for different cache entry types.
const (
	// TTLLayout is the lifetime of cached layout results. Layouts are pure
	// functions of their input, so the TTL only bounds disk usage.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of cached rendered artifacts.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLDocument is the lifetime of cached document snapshots.
	TTLDocument = 24 * time.Hour
)

// Cache is a generic byte cache with TTL support.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Errors are reserved for backend failures; a missing key is not an error.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer constructs cache keys for the different entry types.
type Keyer interface {
	// LayoutKey generates a key for a layout result, derived from the
	// graph's content hash and the layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, derived from
	// the layout's content hash and the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// DocumentKey generates a key for a document snapshot.
	DocumentKey(id string) string
}

// LayoutKeyOpts are the option fields that affect layout output.
// Two runs with equal graph hash and equal opts produce identical layouts.
type LayoutKeyOpts struct {
	SpacingX      float64 `json:"spacing_x"`
	SpacingY      float64 `json:"spacing_y"`
	IslandSpacing float64 `json:"island_spacing"`
	NodeWidth     float64 `json:"node_width"`
	NodeHeight    float64 `json:"node_height"`
	MaxSweeps     int     `json:"max_sweeps"`
}

// ArtifactKeyOpts are the option fields that affect rendered output.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine"`
}

// DefaultKeyer is the standard key construction strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// DocumentKey generates a key for document caching.
func (DefaultKeyer) DocumentKey(id string) string {
	return "doc:" + id
}
