package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys and TTLs. Forum stats staleness is bounded by StatsTTL; every
// other read is computed fresh from the stores.
const (
	ForumStatsKey = "forum:stats"
	UserStatsKeyF = "forum:user-stats:%d"
	CategoriesKey = "forum:categories"
	StatsTTL      = 60 * time.Second
	CategoriesTTL = 5 * time.Minute
	UserStatsTTL  = 60 * time.Second
)

// UserStatsKey returns the cache key for a user's forum stats.
func UserStatsKey(userID uint) string {
	return fmt.Sprintf(UserStatsKeyF, userID)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result with ttl. Cache failures fall through to fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) (bool, error) {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return true, nil
	}

	if err := fetch(); err != nil {
		return false, err
	}

	// Store into cache (best-effort)
	_ = SetJSON(ctx, key, dest, ttl)
	return false, nil
}

// Invalidate removes a key. Safe to call without a client.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}
