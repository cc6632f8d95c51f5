// Package cache holds rendered API responses keyed by request.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque response bodies with a time-to-live.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// RecommendationsPrefix namespaces recommendation responses.
const RecommendationsPrefix = "recs:"

// RecommendationsKey is the cache key of one recommendations response.
func RecommendationsKey(whopID string, limit int, debug bool) string {
	return fmt.Sprintf("%s%s:%d:%t", RecommendationsPrefix, whopID, limit, debug)
}
