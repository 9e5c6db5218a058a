package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is nil when caching is disabled (no REDIS_URL or unreachable).
var RedisClient *redis.Client

const rideListCacheTTL = 30 * time.Second

// InitRedis connects the optional listing cache. An empty URL disables it.
func InitRedis(url string) error {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	RedisClient = client
	return nil
}

// RideListCacheKey derives the cache key for one filter combination.
func RideListCacheKey(departure, destination, date string) string {
	return fmt.Sprintf("rides:list:%s:%s:%s",
		strings.ToLower(strings.TrimSpace(departure)),
		strings.ToLower(strings.TrimSpace(destination)),
		strings.TrimSpace(date))
}

// CachedRideList returns the cached listing payload for the key, if any.
// Cache errors behave like misses.
func CachedRideList(ctx context.Context, key string) ([]map[string]any, bool) {
	if RedisClient == nil {
		return nil, false
	}
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var payload []map[string]any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// StoreRideList caches the listing payload with a short TTL. Staleness is
// bounded by the TTL; mutations do not invalidate.
func StoreRideList(ctx context.Context, key string, payload []map[string]any) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	RedisClient.Set(ctx, key, data, rideListCacheTTL)
}
