// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// listing.go provides a Valkey-backed cache for hot read endpoints: the
// flat link listing and the category tree. Cached entries hold the final
// JSON payload so cache hits skip the database entirely. All failures are
// best-effort — a broken cache never fails a request, reads just fall
// through to PostgreSQL.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listingKeyPrefix namespaces listing keys in Valkey.
	listingKeyPrefix = "listing:"

	// KeyLinks caches the unfiltered link listing. Filtered queries are
	// not cached — the query space is unbounded.
	KeyLinks = "links"

	// KeyTree caches the full category tree.
	KeyTree = "tree"

	// DefaultListingTTL is how long a listing stays cached.
	DefaultListingTTL = 5 * time.Minute
)

// ListingCache manages serialized listing payloads in Valkey.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache backed by the given Valkey client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl == 0 {
		ttl = DefaultListingTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns (nil, false) on miss or error.
func (lc *ListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("listing cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("listing cache hit", "key", key)
	return val, true
}

// Set stores a payload for a listing key with the configured TTL.
func (lc *ListingCache) Set(ctx context.Context, key string, payload []byte) {
	if err := lc.client.Set(ctx, listingKeyPrefix+key, payload, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given listing keys. Called after any taxonomy or
// link mutation so reads eventually reflect committed writes.
func (lc *ListingCache) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := lc.client.Del(ctx, listingKeyPrefix+key).Err(); err != nil {
			slog.Warn("listing cache invalidate error", "key", key, "error", err)
		}
	}
}
