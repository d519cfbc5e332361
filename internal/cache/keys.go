package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache key builders. Keep all key formats here so invalidation stays in sync
// with reads.

const (
	// PostTTL is the lifetime of a cached single post.
	PostTTL = 5 * time.Minute
	// FeedTTL is the lifetime of a cached feed page. Feeds change often so
	// this stays short.
	FeedTTL = 30 * time.Second
	// ProfileTTL is the lifetime of a cached profile.
	ProfileTTL = 10 * time.Minute
	// SummaryTTL is the lifetime of a cached financial summary.
	SummaryTTL = 1 * time.Minute
)

// PostKey returns the cache key for a single post as seen by a viewer. The
// viewer matters because like state is computed per profile.
func PostKey(postID, viewerID uint) string {
	return fmt.Sprintf("post:%d:viewer:%d", postID, viewerID)
}

// FeedKey returns the cache key for a feed page.
func FeedKey(scope string, viewerID uint, page, limit int) string {
	return fmt.Sprintf("feed:%s:viewer:%d:page:%d:limit:%d", scope, viewerID, page, limit)
}

// ProfileKey returns the cache key for a profile.
func ProfileKey(profileID uint) string {
	return fmt.Sprintf("profile:%d", profileID)
}

// SummaryKey returns the cache key for a profile's financial summary for a
// given month (YYYY-MM).
func SummaryKey(profileID uint, month string) string {
	return fmt.Sprintf("summary:%d:%s", profileID, month)
}

// Invalidate removes the given keys. A nil client is a no-op.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidatePost removes all cached copies of a post regardless of viewer.
func InvalidatePost(ctx context.Context, postID uint) {
	if client == nil {
		return
	}
	deleteByPattern(ctx, fmt.Sprintf("post:%d:viewer:*", postID))
}

// InvalidateFeeds removes all cached feed pages. Called on post create, update
// and delete since any page may contain the changed post.
func InvalidateFeeds(ctx context.Context) {
	if client == nil {
		return
	}
	deleteByPattern(ctx, "feed:*")
}

// InvalidateSummaries removes all cached summaries for a profile.
func InvalidateSummaries(ctx context.Context, profileID uint) {
	if client == nil {
		return
	}
	deleteByPattern(ctx, fmt.Sprintf("summary:%d:*", profileID))
}

func deleteByPattern(ctx context.Context, pattern string) {
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil {
		return
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
