package domain

import (
	"context"
	"time"
)

// SourceClient defines the per-source adapter contract.
// Implementations: internal/infra/source/dramabox/, internal/infra/source/netshort/
type SourceClient interface {
	// Name returns the upstream identifier for this adapter.
	Name() Source

	// List fetches and normalizes one catalog rail.
	List(ctx context.Context, category Category) ([]Drama, error)

	// Search queries the upstream with a free-text query. The query is
	// assumed non-empty; empty-query short-circuiting happens in the
	// catalog client.
	Search(ctx context.Context, query string) ([]SearchResult, error)

	// Detail fetches one title merged with its episode list.
	Detail(ctx context.Context, id string) (*Detail, error)

	// ResolveStream resolves the playable URL for one episode (1-based).
	ResolveStream(ctx context.Context, id string, episode int) (string, error)

	// HealthCheck verifies the upstream is accessible.
	HealthCheck(ctx context.Context) error
}

// PopularSearcher is implemented by sources exposing a trending-queries feed.
type PopularSearcher interface {
	PopularSearches(ctx context.Context) ([]string, error)
}

// RandomPicker is implemented by sources exposing a random-title endpoint.
type RandomPicker interface {
	Random(ctx context.Context) (*Drama, error)
}

// Cache defines the freshness cache used by the catalog client.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil, nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}

// Storage is the durable key-value primitive backing the watch-history log.
// It is deliberately minimal; callers own serialization of read-modify-write
// cycles.
// Implementations: internal/infra/storage/
type Storage interface {
	// Get retrieves the value for key. Returns ErrKeyNotFound when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
