package diag

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a Sink that buffers counters in memory and flushes them to Redis
// with per-key INCRBY at the end of the run. Because INCRBY is commutative
// addition, any number of shards or machines can flush into the same key
// space and the totals stay correct regardless of order.
//
// Keys take the form "udpas:<run>:<table>:<key>"; pass the same run id on
// every shard of one corpus run, or distinct ids to keep runs separate.
type Redis struct {
	*Memory
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed sink writing under the given run id.
func NewRedis(client *redis.Client, runID string) *Redis {
	return &Redis{
		Memory: NewMemory(),
		client: client,
		prefix: "udpas:" + runID,
	}
}

// Flush pushes all buffered counters to Redis. The in-memory state is kept,
// so a report can still be rendered locally after flushing.
func (r *Redis) Flush(ctx context.Context) error {
	pipe := r.client.Pipeline()
	for _, table := range r.Tables() {
		for key, count := range r.Table(table) {
			pipe.IncrBy(ctx, fmt.Sprintf("%s:%s:%s", r.prefix, table, key), count)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("flush counters to redis: %w", err)
	}
	return nil
}

// Close releases the underlying client connection.
func (r *Redis) Close() error { return r.client.Close() }
