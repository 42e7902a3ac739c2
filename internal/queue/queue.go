// Package queue enqueues session runs for the background worker pool.
// Delivery is at-least-once with no ordering across sessions; the worker
// treats the persisted status as a soft guard against duplicate runs.
package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultStream = "sessions:process"
	DefaultGroup  = "session-workers"
)

type Queue interface {
	Enqueue(ctx context.Context, sessionID string) error
}

// RedisQueue pushes run requests onto a Redis Stream consumed by the
// worker pool via a consumer group.
type RedisQueue struct {
	rdb    *redis.Client
	stream string
}

func NewRedisQueue(rdb *redis.Client, stream string) *RedisQueue {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisQueue{rdb: rdb, stream: stream}
}

func (q *RedisQueue) Enqueue(ctx context.Context, sessionID string) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			"session_id": sessionID,
			"ts_unix":    strconv.FormatInt(time.Now().UTC().Unix(), 10),
		},
	}).Err()
}
