package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ResultKey caches a session's full analysis payload once COMPLETED. The
// worker invalidates it whenever a fresh run overwrites the result.
func ResultKey(sessionID string) string {
	return "session:" + sessionID + ":result"
}
