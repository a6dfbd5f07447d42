package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// GenerateQueryHash builds the cache key for one resource + filter
// combination. Filter keys are sorted so equivalent queries share a key.
func GenerateQueryHash(resourceType string, filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := fmt.Sprintf("resource=%s", resourceType)
	for _, k := range keys {
		query += fmt.Sprintf("&%s=%s", k, filters[k])
	}

	hash := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s:%s", resourceType, hex.EncodeToString(hash[:]))
}

// InvalidateCache deletes all cached keys for the given resource type.
// SCAN instead of KEYS for better behaviour in production.
func InvalidateCache(ctx context.Context, rdb *redis.Client, resourceType string) error {
	pattern := fmt.Sprintf("%s:*", resourceType)
	iter := rdb.Scan(ctx, 0, pattern, 0).Iterator()

	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %v", iter.Val(), err)
		}
	}
	return iter.Err()
}
