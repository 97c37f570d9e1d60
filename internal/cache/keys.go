package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	feedVersionKey = "feed:ver"

	FeedTTL = 1 * time.Minute
	UserTTL = 5 * time.Minute
)

// FeedKey builds the cache key for one anonymous feed page. The key
// embeds the current feed version, so a version bump orphans every
// cached page at once and they expire by TTL.
func FeedKey(ctx context.Context, sort string, limit, offset int) string {
	return fmt.Sprintf("feed:v%d:%s:%d:%d", feedVersion(ctx), sort, limit, offset)
}

// UserKey builds the cache key for a single user record.
func UserKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func feedVersion(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, feedVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

// InvalidateFeed bumps the feed version. Cheaper than enumerating feed
// page keys, and safe to call on every post mutation.
func InvalidateFeed(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, feedVersionKey)
	}
}

// Invalidate removes a single key, ignoring errors.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser removes a user's cached record.
func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}
